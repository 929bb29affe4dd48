package storetest

import (
	"errors"
	"testing"

	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// runNodeTests runs all node and child-index conformance tests.
func runNodeTests(t *testing.T, factory StoreFactory) {
	t.Run("RootID", func(t *testing.T) { testRootID(t, factory) })
	t.Run("PutGet", func(t *testing.T) { testPutGet(t, factory) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDeleteNode(t, factory) })
	t.Run("ChildIndex", func(t *testing.T) { testChildIndex(t, factory) })
	t.Run("ChildrenOrdered", func(t *testing.T) { testChildrenOrdered(t, factory) })
	t.Run("UpdateRollback", func(t *testing.T) { testUpdateRollback(t, factory) })
	t.Run("CloneSafety", func(t *testing.T) { testCloneSafety(t, factory) })
}

func testRootID(t *testing.T, factory StoreFactory) {
	store := factory(t)

	rootID := createTestDatabase(t, store, "books")

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		got, err := tx.RootID()
		if err != nil {
			return err
		}
		if got != rootID {
			t.Errorf("RootID() = %v, want %v", got, rootID)
		}
		root, err := tx.GetNode(got)
		if err != nil {
			return err
		}
		if !root.IsRoot() {
			t.Errorf("root node IsRoot() = false, want true")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testPutGet(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	doc := map[string]any{
		"title": "Ulysses",
		"meta":  map[string]any{"year": float64(1922)},
		"tags":  []any{"fiction", "classic"},
	}
	id := putTestFile(t, store, "books", root, "ulysses", doc)

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		node, err := tx.GetNode(id)
		if err != nil {
			return err
		}
		if node.Name != "ulysses" {
			t.Errorf("Name = %q, want %q", node.Name, "ulysses")
		}
		if node.Type != content.TypeFile {
			t.Errorf("Type = %v, want TypeFile", node.Type)
		}
		if node.Parent != root {
			t.Errorf("Parent = %v, want %v", node.Parent, root)
		}
		if node.Content["title"] != "Ulysses" {
			t.Errorf("Content[title] = %v, want Ulysses", node.Content["title"])
		}
		meta, ok := node.Content["meta"].(map[string]any)
		if !ok || meta["year"] != float64(1922) {
			t.Errorf("nested document not preserved: %v", node.Content["meta"])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testGetMissing(t *testing.T, factory StoreFactory) {
	store := factory(t)
	createTestDatabase(t, store, "books")

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		_, err := tx.GetNode(content.NewNodeID())
		if cerrors.CodeOf(err) != cerrors.ErrPathNotFound {
			t.Errorf("GetNode() error = %v, want ErrPathNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testDeleteNode(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	id := putTestFile(t, store, "books", root, "doomed", map[string]any{})

	err := store.Update(t.Context(), "books", func(tx content.Tx) error {
		if err := tx.RemoveChild(root, "doomed"); err != nil {
			return err
		}
		return tx.DeleteNode(id)
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	err = store.View(t.Context(), "books", func(tx content.Tx) error {
		if _, err := tx.GetNode(id); cerrors.CodeOf(err) != cerrors.ErrPathNotFound {
			t.Errorf("GetNode() after delete error = %v, want ErrPathNotFound", err)
		}
		if _, ok, err := tx.GetChild(root, "doomed"); err != nil {
			return err
		} else if ok {
			t.Error("GetChild() still resolves a removed child")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testChildIndex(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	id := putTestFile(t, store, "books", root, "doc", map[string]any{})

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		got, ok, err := tx.GetChild(root, "doc")
		if err != nil {
			return err
		}
		if !ok || got != id {
			t.Errorf("GetChild() = (%v, %v), want (%v, true)", got, ok, id)
		}
		_, ok, err = tx.GetChild(root, "other")
		if err != nil {
			return err
		}
		if ok {
			t.Error("GetChild() resolved a name that was never set")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testChildrenOrdered(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	putTestFile(t, store, "books", root, "zeta", map[string]any{})
	putTestDir(t, store, "books", root, "alpha")
	putTestFile(t, store, "books", root, "mid", map[string]any{})

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		children, err := tx.Children(root)
		if err != nil {
			return err
		}
		if len(children) != 3 {
			t.Fatalf("Children() returned %d entries, want 3", len(children))
		}
		want := []string{"alpha", "mid", "zeta"}
		for i, entry := range children {
			if entry.Name != want[i] {
				t.Errorf("Children()[%d].Name = %q, want %q", i, entry.Name, want[i])
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

// testUpdateRollback verifies that a failed Update leaves no trace.
func testUpdateRollback(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	boom := errors.New("boom")

	node := content.NewFileNode("ghost", root, map[string]any{})
	err := store.Update(t.Context(), "books", func(tx content.Tx) error {
		if err := tx.PutNode(node); err != nil {
			return err
		}
		if err := tx.SetChild(root, "ghost", node.ID); err != nil {
			return err
		}
		if err := tx.SetCounter("ghosts", 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	err = store.View(t.Context(), "books", func(tx content.Tx) error {
		if _, err := tx.GetNode(node.ID); cerrors.CodeOf(err) != cerrors.ErrPathNotFound {
			t.Errorf("node survived rolled-back Update: %v", err)
		}
		if _, ok, err := tx.GetChild(root, "ghost"); err != nil {
			return err
		} else if ok {
			t.Error("child entry survived rolled-back Update")
		}
		if _, ok, err := tx.GetCounter("ghosts"); err != nil {
			return err
		} else if ok {
			t.Error("counter survived rolled-back Update")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

// testCloneSafety verifies that mutating a node returned by GetNode does not
// change persisted state without a PutNode.
func testCloneSafety(t *testing.T, factory StoreFactory) {
	store := factory(t)

	root := createTestDatabase(t, store, "books")
	id := putTestFile(t, store, "books", root, "doc", map[string]any{"n": float64(1)})

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		node, err := tx.GetNode(id)
		if err != nil {
			return err
		}
		node.Content["n"] = float64(99)
		node.Name = "mutated"
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}

	err = store.View(t.Context(), "books", func(tx content.Tx) error {
		node, err := tx.GetNode(id)
		if err != nil {
			return err
		}
		if node.Name != "doc" || node.Content["n"] != float64(1) {
			t.Errorf("persisted node changed without PutNode: name=%q n=%v", node.Name, node.Content["n"])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}
