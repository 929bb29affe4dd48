// Package badger provides a persistent content store backed by BadgerDB.
// Every database of a deployment shares one BadgerDB instance; keys are
// namespaced per database (see encoding.go).
package badger

import (
	"context"
	"sort"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// maxConflictRetries bounds how often an Update is retried after a BadgerDB
// transaction conflict before giving up.
const maxConflictRetries = 5

// Store implements content.Store on BadgerDB.
type Store struct {
	db *badgerdb.DB
}

// NewStore opens (or creates) a BadgerDB-backed content store at path.
func NewStore(path string) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, cerrors.NewStoreFailureError(err)
	}
	return &Store{db: db}, nil
}

// NewInMemoryStore opens a BadgerDB store without on-disk state. Used by
// tests.
func NewInMemoryStore() (*Store, error) {
	opts := badgerdb.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, cerrors.NewStoreFailureError(err)
	}
	return &Store{db: db}, nil
}

func (s *Store) CreateDatabase(ctx context.Context, db string, root *content.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(keyDatabase(db))
		if err == nil {
			return cerrors.NewAlreadyExistsError(db)
		}
		if err != badgerdb.ErrKeyNotFound {
			return cerrors.NewStoreFailureError(err)
		}

		data, err := encodeNode(root)
		if err != nil {
			return err
		}
		if err := txn.Set(keyNode(db, root.ID), data); err != nil {
			return cerrors.NewStoreFailureError(err)
		}
		if err := txn.Set(keyDatabase(db), []byte(root.ID)); err != nil {
			return cerrors.NewStoreFailureError(err)
		}
		return nil
	})
}

func (s *Store) DropDatabase(ctx context.Context, db string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(keyDatabase(db)); err == badgerdb.ErrKeyNotFound {
			return cerrors.NewDatabaseNotFoundError(db)
		} else if err != nil {
			return cerrors.NewStoreFailureError(err)
		}
		return txn.Delete(keyDatabase(db))
	})
	if err != nil {
		return err
	}

	// DropPrefix runs outside transactions; the marker is already gone, so
	// View/Update can no longer reach this database's keys.
	err = s.db.DropPrefix(
		keyNodePrefix(db),
		keyChildrenPrefix(db),
		keyCounterPrefix(db),
	)
	if err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (s *Store) ListDatabases(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := []string{}
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixDatabase)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, prefixDatabase))
		}
		return nil
	})
	if err != nil {
		return nil, cerrors.NewStoreFailureError(err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) View(ctx context.Context, db string, fn func(tx content.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.View(func(txn *badgerdb.Txn) error {
		if err := checkDatabase(txn, db); err != nil {
			return err
		}
		return fn(&badgerTx{db: db, txn: txn})
	})
}

// Update runs fn in a BadgerDB read-write transaction. Conflicting
// transactions are retried with a fresh snapshot; fn must therefore be safe
// to re-run.
func (s *Store) Update(ctx context.Context, db string, fn func(tx content.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	for range maxConflictRetries {
		err = s.db.Update(func(txn *badgerdb.Txn) error {
			if err := checkDatabase(txn, db); err != nil {
				return err
			}
			return fn(&badgerTx{db: db, txn: txn})
		})
		if err != badgerdb.ErrConflict {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return cerrors.NewStoreFailureError(err)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func checkDatabase(txn *badgerdb.Txn, db string) error {
	if _, err := txn.Get(keyDatabase(db)); err == badgerdb.ErrKeyNotFound {
		return cerrors.NewDatabaseNotFoundError(db)
	} else if err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

// ============================================================================
// Transaction
// ============================================================================

// badgerTx implements content.Tx over a single BadgerDB transaction scoped
// to one database's key namespace.
type badgerTx struct {
	db  string
	txn *badgerdb.Txn
}

func (t *badgerTx) RootID() (content.NodeID, error) {
	item, err := t.txn.Get(keyDatabase(t.db))
	if err == badgerdb.ErrKeyNotFound {
		return "", cerrors.NewDatabaseNotFoundError(t.db)
	}
	if err != nil {
		return "", cerrors.NewStoreFailureError(err)
	}

	var root content.NodeID
	err = item.Value(func(val []byte) error {
		root = content.NodeID(val)
		return nil
	})
	if err != nil {
		return "", cerrors.NewStoreFailureError(err)
	}
	return root, nil
}

func (t *badgerTx) GetNode(id content.NodeID) (*content.Node, error) {
	item, err := t.txn.Get(keyNode(t.db, id))
	if err == badgerdb.ErrKeyNotFound {
		return nil, cerrors.NewPathNotFoundError(string(id))
	}
	if err != nil {
		return nil, cerrors.NewStoreFailureError(err)
	}

	var node *content.Node
	err = item.Value(func(val []byte) error {
		n, decErr := decodeNode(val)
		if decErr != nil {
			return decErr
		}
		node = n
		return nil
	})
	if err != nil {
		return nil, cerrors.NewStoreFailureError(err)
	}
	return node, nil
}

func (t *badgerTx) PutNode(n *content.Node) error {
	data, err := encodeNode(n)
	if err != nil {
		return err
	}
	if err := t.txn.Set(keyNode(t.db, n.ID), data); err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (t *badgerTx) DeleteNode(id content.NodeID) error {
	if err := t.txn.Delete(keyNode(t.db, id)); err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (t *badgerTx) GetChild(parent content.NodeID, name string) (content.NodeID, bool, error) {
	item, err := t.txn.Get(keyChild(t.db, parent, name))
	if err == badgerdb.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, cerrors.NewStoreFailureError(err)
	}

	var id content.NodeID
	err = item.Value(func(val []byte) error {
		id = content.NodeID(val)
		return nil
	})
	if err != nil {
		return "", false, cerrors.NewStoreFailureError(err)
	}
	return id, true, nil
}

func (t *badgerTx) SetChild(parent content.NodeID, name string, child content.NodeID) error {
	if err := t.txn.Set(keyChild(t.db, parent, name), []byte(child)); err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (t *badgerTx) RemoveChild(parent content.NodeID, name string) error {
	if err := t.txn.Delete(keyChild(t.db, parent, name)); err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (t *badgerTx) Children(parent content.NodeID) ([]content.ChildEntry, error) {
	prefix := keyChildPrefix(t.db, parent)

	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix

	it := t.txn.NewIterator(opts)
	defer it.Close()

	entries := []content.ChildEntry{}
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		name := strings.TrimPrefix(string(item.Key()), string(prefix))

		var id content.NodeID
		err := item.Value(func(val []byte) error {
			id = content.NodeID(val)
			return nil
		})
		if err != nil {
			return nil, cerrors.NewStoreFailureError(err)
		}
		entries = append(entries, content.ChildEntry{Name: name, ID: id})
	}
	return entries, nil
}

func (t *badgerTx) GetCounter(name string) (int64, bool, error) {
	item, err := t.txn.Get(keyCounter(t.db, name))
	if err == badgerdb.ErrKeyNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, cerrors.NewStoreFailureError(err)
	}

	var value int64
	err = item.Value(func(val []byte) error {
		v, decErr := decodeInt64(val)
		if decErr != nil {
			return decErr
		}
		value = v
		return nil
	})
	if err != nil {
		return 0, false, cerrors.NewStoreFailureError(err)
	}
	return value, true, nil
}

func (t *badgerTx) SetCounter(name string, value int64) error {
	if err := t.txn.Set(keyCounter(t.db, name), encodeInt64(value)); err != nil {
		return cerrors.NewStoreFailureError(err)
	}
	return nil
}

func (t *badgerTx) Counters() (map[string]int64, error) {
	prefix := keyCounterPrefix(t.db)

	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix

	it := t.txn.NewIterator(opts)
	defer it.Close()

	out := map[string]int64{}
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		name := strings.TrimPrefix(string(item.Key()), string(prefix))

		err := item.Value(func(val []byte) error {
			v, decErr := decodeInt64(val)
			if decErr != nil {
				return decErr
			}
			out[name] = v
			return nil
		})
		if err != nil {
			return nil, cerrors.NewStoreFailureError(err)
		}
	}
	return out, nil
}
