package storetest

import (
	"testing"

	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// runDatabaseTests runs all database lifecycle conformance tests.
func runDatabaseTests(t *testing.T, factory StoreFactory) {
	t.Run("CreateAndList", func(t *testing.T) { testCreateAndList(t, factory) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, factory) })
	t.Run("Drop", func(t *testing.T) { testDrop(t, factory) })
	t.Run("DropMissing", func(t *testing.T) { testDropMissing(t, factory) })
	t.Run("AccessMissing", func(t *testing.T) { testAccessMissing(t, factory) })
	t.Run("Isolation", func(t *testing.T) { testIsolation(t, factory) })
}

func testCreateAndList(t *testing.T, factory StoreFactory) {
	store := factory(t)

	createTestDatabase(t, store, "books")
	createTestDatabase(t, store, "albums")

	names, err := store.ListDatabases(t.Context())
	if err != nil {
		t.Fatalf("ListDatabases() failed: %v", err)
	}
	if len(names) != 2 || names[0] != "albums" || names[1] != "books" {
		t.Errorf("ListDatabases() = %v, want [albums books] sorted", names)
	}
}

func testCreateDuplicate(t *testing.T, factory StoreFactory) {
	store := factory(t)

	createTestDatabase(t, store, "books")

	err := store.CreateDatabase(t.Context(), "books", content.NewRootNode())
	if cerrors.CodeOf(err) != cerrors.ErrAlreadyExists {
		t.Errorf("duplicate CreateDatabase() error = %v, want ErrAlreadyExists", err)
	}
}

func testDrop(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	putTestFile(t, store, "books", root, "a", map[string]any{"x": float64(1)})

	if err := store.DropDatabase(t.Context(), "books"); err != nil {
		t.Fatalf("DropDatabase() failed: %v", err)
	}

	names, err := store.ListDatabases(t.Context())
	if err != nil {
		t.Fatalf("ListDatabases() failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListDatabases() after drop = %v, want empty", names)
	}

	// Recreating the same name starts from a clean slate.
	newRoot := createTestDatabase(t, store, "books")
	err = store.View(t.Context(), "books", func(tx content.Tx) error {
		children, err := tx.Children(newRoot)
		if err != nil {
			return err
		}
		if len(children) != 0 {
			t.Errorf("recreated database root has %d children, want 0", len(children))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testDropMissing(t *testing.T, factory StoreFactory) {
	store := factory(t)

	err := store.DropDatabase(t.Context(), "nope")
	if cerrors.CodeOf(err) != cerrors.ErrDatabaseNotFound {
		t.Errorf("DropDatabase() error = %v, want ErrDatabaseNotFound", err)
	}
}

func testAccessMissing(t *testing.T, factory StoreFactory) {
	store := factory(t)

	err := store.View(t.Context(), "nope", func(tx content.Tx) error { return nil })
	if cerrors.CodeOf(err) != cerrors.ErrDatabaseNotFound {
		t.Errorf("View() error = %v, want ErrDatabaseNotFound", err)
	}

	err = store.Update(t.Context(), "nope", func(tx content.Tx) error { return nil })
	if cerrors.CodeOf(err) != cerrors.ErrDatabaseNotFound {
		t.Errorf("Update() error = %v, want ErrDatabaseNotFound", err)
	}
}

func testIsolation(t *testing.T, factory StoreFactory) {
	store := factory(t)

	rootA := createTestDatabase(t, store, "a")
	rootB := createTestDatabase(t, store, "b")
	idA := putTestFile(t, store, "a", rootA, "doc", map[string]any{"db": "a"})

	// The node must not be visible from database b.
	err := store.View(t.Context(), "b", func(tx content.Tx) error {
		if _, err := tx.GetNode(idA); cerrors.CodeOf(err) != cerrors.ErrPathNotFound {
			t.Errorf("GetNode() across databases error = %v, want ErrPathNotFound", err)
		}
		children, err := tx.Children(rootB)
		if err != nil {
			return err
		}
		if len(children) != 0 {
			t.Errorf("database b root has %d children, want 0", len(children))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}
