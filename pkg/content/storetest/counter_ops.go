package storetest

import (
	"testing"

	"github.com/marmos91/bytengine/pkg/content"
)

// runCounterTests runs all counter conformance tests.
func runCounterTests(t *testing.T, factory StoreFactory) {
	t.Run("SetAndGet", func(t *testing.T) { testCounterSetAndGet(t, factory) })
	t.Run("GetMissing", func(t *testing.T) { testCounterGetMissing(t, factory) })
	t.Run("List", func(t *testing.T) { testCounterList(t, factory) })
	t.Run("PerDatabase", func(t *testing.T) { testCounterPerDatabase(t, factory) })
}

func setCounter(t *testing.T, store content.Store, db, name string, value int64) {
	t.Helper()
	err := store.Update(t.Context(), db, func(tx content.Tx) error {
		return tx.SetCounter(name, value)
	})
	if err != nil {
		t.Fatalf("setting counter %q failed: %v", name, err)
	}
}

func testCounterSetAndGet(t *testing.T, factory StoreFactory) {
	store := factory(t)
	createTestDatabase(t, store, "books")

	setCounter(t, store, "books", "hits", 42)
	setCounter(t, store, "books", "hits", -7)

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		v, ok, err := tx.GetCounter("hits")
		if err != nil {
			return err
		}
		if !ok || v != -7 {
			t.Errorf("GetCounter() = (%d, %v), want (-7, true)", v, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testCounterGetMissing(t *testing.T, factory StoreFactory) {
	store := factory(t)
	createTestDatabase(t, store, "books")

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		v, ok, err := tx.GetCounter("nope")
		if err != nil {
			return err
		}
		if ok || v != 0 {
			t.Errorf("GetCounter() = (%d, %v), want (0, false)", v, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testCounterList(t *testing.T, factory StoreFactory) {
	store := factory(t)
	createTestDatabase(t, store, "books")

	setCounter(t, store, "books", "reads", 3)
	setCounter(t, store, "books", "writes", 5)

	err := store.View(t.Context(), "books", func(tx content.Tx) error {
		counters, err := tx.Counters()
		if err != nil {
			return err
		}
		if len(counters) != 2 || counters["reads"] != 3 || counters["writes"] != 5 {
			t.Errorf("Counters() = %v, want map[reads:3 writes:5]", counters)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func testCounterPerDatabase(t *testing.T, factory StoreFactory) {
	store := factory(t)
	createTestDatabase(t, store, "a")
	createTestDatabase(t, store, "b")

	setCounter(t, store, "a", "hits", 1)

	err := store.View(t.Context(), "b", func(tx content.Tx) error {
		if _, ok, err := tx.GetCounter("hits"); err != nil {
			return err
		} else if ok {
			t.Error("counter leaked across databases")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}
