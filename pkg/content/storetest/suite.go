// Package storetest provides a reusable conformance suite for content.Store
// implementations. Every backend runs the same suite, so behavioral drift
// between the in-memory and BadgerDB stores shows up as a test failure.
package storetest

import (
	"testing"

	"github.com/marmos91/bytengine/pkg/content"
)

// StoreFactory creates a fresh Store instance for each test. The factory
// receives *testing.T so it can use t.TempDir() for stores that need
// filesystem paths and t.Cleanup() for teardown.
type StoreFactory func(t *testing.T) content.Store

// RunConformanceSuite runs the full conformance test suite against the
// provided store factory. Each test gets a fresh store instance to ensure
// isolation.
//
// The suite covers three categories:
//   - Databases: database lifecycle, listing, isolation
//   - Nodes: node CRUD, child indexing, transactional atomicity
//   - Counters: counter reads, writes, listing
func RunConformanceSuite(t *testing.T, factory StoreFactory) {
	t.Helper()

	t.Run("Databases", func(t *testing.T) {
		runDatabaseTests(t, factory)
	})

	t.Run("Nodes", func(t *testing.T) {
		runNodeTests(t, factory)
	})

	t.Run("Counters", func(t *testing.T) {
		runCounterTests(t, factory)
	})
}

// createTestDatabase creates a database with a fresh root and returns the
// root's id.
func createTestDatabase(t *testing.T, store content.Store, db string) content.NodeID {
	t.Helper()

	root := content.NewRootNode()
	if err := store.CreateDatabase(t.Context(), db, root); err != nil {
		t.Fatalf("CreateDatabase(%q) failed: %v", db, err)
	}
	return root.ID
}

// putTestFile inserts a file node under parent in its own transaction and
// returns its id.
func putTestFile(t *testing.T, store content.Store, db string, parent content.NodeID, name string, doc map[string]any) content.NodeID {
	t.Helper()

	node := content.NewFileNode(name, parent, doc)
	err := store.Update(t.Context(), db, func(tx content.Tx) error {
		if err := tx.PutNode(node); err != nil {
			return err
		}
		return tx.SetChild(parent, name, node.ID)
	})
	if err != nil {
		t.Fatalf("inserting file %q failed: %v", name, err)
	}
	return node.ID
}

// putTestDir inserts a directory node under parent in its own transaction
// and returns its id.
func putTestDir(t *testing.T, store content.Store, db string, parent content.NodeID, name string) content.NodeID {
	t.Helper()

	node := content.NewDirNode(name, parent)
	err := store.Update(t.Context(), db, func(tx content.Tx) error {
		if err := tx.PutNode(node); err != nil {
			return err
		}
		return tx.SetChild(parent, name, node.ID)
	})
	if err != nil {
		t.Fatalf("inserting dir %q failed: %v", name, err)
	}
	return node.ID
}
