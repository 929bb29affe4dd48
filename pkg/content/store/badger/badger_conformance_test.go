package badger_test

import (
	"path/filepath"
	"testing"

	"github.com/marmos91/bytengine/pkg/content"
	"github.com/marmos91/bytengine/pkg/content/store/badger"
	"github.com/marmos91/bytengine/pkg/content/storetest"
)

func TestConformance(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) content.Store {
		dbPath := filepath.Join(t.TempDir(), "content.db")
		store, err := badger.NewStore(dbPath)
		if err != nil {
			t.Fatalf("NewStore() failed: %v", err)
		}
		t.Cleanup(func() {
			store.Close()
		})
		return store
	})
}

func TestConformanceInMemory(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) content.Store {
		store, err := badger.NewInMemoryStore()
		if err != nil {
			t.Fatalf("NewInMemoryStore() failed: %v", err)
		}
		t.Cleanup(func() {
			store.Close()
		})
		return store
	})
}
