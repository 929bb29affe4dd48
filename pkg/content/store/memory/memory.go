// Package memory provides an in-process content store backed by maps and
// copy-on-write b-trees. State is lost on restart; intended for tests,
// development and ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tidwall/btree"

	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ============================================================================
// Store
// ============================================================================

// database is the in-memory state of one content database.
type database struct {
	mu       sync.RWMutex
	root     content.NodeID
	nodes    map[content.NodeID]*content.Node
	children map[content.NodeID]*btree.Map[string, content.NodeID]
	counters map[string]int64
}

// Store implements content.Store in process memory.
type Store struct {
	mu  sync.RWMutex
	dbs map[string]*database
}

// NewStore creates an empty in-memory content store.
func NewStore() *Store {
	return &Store{dbs: make(map[string]*database)}
}

func (s *Store) CreateDatabase(ctx context.Context, db string, root *content.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dbs[db]; ok {
		return cerrors.NewAlreadyExistsError(db)
	}
	d := &database{
		root:     root.ID,
		nodes:    map[content.NodeID]*content.Node{root.ID: root.Clone()},
		children: make(map[content.NodeID]*btree.Map[string, content.NodeID]),
		counters: make(map[string]int64),
	}
	s.dbs[db] = d
	return nil
}

func (s *Store) DropDatabase(ctx context.Context, db string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dbs[db]; !ok {
		return cerrors.NewDatabaseNotFoundError(db)
	}
	delete(s.dbs, db)
	return nil
}

func (s *Store) ListDatabases(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.dbs))
	for name := range s.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) View(ctx context.Context, db string, fn func(tx content.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := s.lookup(db)
	if err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	return fn(&memTx{db: d})
}

func (s *Store) Update(ctx context.Context, db string, fn func(tx content.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := s.lookup(db)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &memTx{
		db:       d,
		writable: true,
		nodes:    make(map[content.NodeID]*content.Node),
		children: make(map[content.NodeID]*btree.Map[string, content.NodeID]),
		counters: make(map[string]int64),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dbs = make(map[string]*database)
	return nil
}

func (s *Store) lookup(db string) (*database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dbs[db]
	if !ok {
		return nil, cerrors.NewDatabaseNotFoundError(db)
	}
	return d, nil
}

// ============================================================================
// Transaction
// ============================================================================

// memTx stages writes in overlays over the database's base maps and applies
// them only on commit, so a failed Update leaves the database untouched.
// Child indexes are staged with the b-tree's copy-on-write Copy, which
// shares unchanged pages with the base index.
type memTx struct {
	db       *database
	writable bool

	// Write overlays. A nil node in nodes marks a staged deletion.
	nodes    map[content.NodeID]*content.Node
	children map[content.NodeID]*btree.Map[string, content.NodeID]
	counters map[string]int64
}

func (t *memTx) RootID() (content.NodeID, error) {
	return t.db.root, nil
}

func (t *memTx) GetNode(id content.NodeID) (*content.Node, error) {
	if staged, ok := t.nodes[id]; ok {
		if staged == nil {
			return nil, cerrors.NewPathNotFoundError(string(id))
		}
		return staged.Clone(), nil
	}
	n, ok := t.db.nodes[id]
	if !ok {
		return nil, cerrors.NewPathNotFoundError(string(id))
	}
	return n.Clone(), nil
}

func (t *memTx) PutNode(n *content.Node) error {
	t.nodes[n.ID] = n.Clone()
	return nil
}

func (t *memTx) DeleteNode(id content.NodeID) error {
	t.nodes[id] = nil
	return nil
}

func (t *memTx) GetChild(parent content.NodeID, name string) (content.NodeID, bool, error) {
	id, ok := t.childIndex(parent, false).Get(name)
	return id, ok, nil
}

func (t *memTx) SetChild(parent content.NodeID, name string, child content.NodeID) error {
	t.childIndex(parent, true).Set(name, child)
	return nil
}

func (t *memTx) RemoveChild(parent content.NodeID, name string) error {
	t.childIndex(parent, true).Delete(name)
	return nil
}

func (t *memTx) Children(parent content.NodeID) ([]content.ChildEntry, error) {
	idx := t.childIndex(parent, false)
	entries := make([]content.ChildEntry, 0, idx.Len())
	idx.Scan(func(name string, id content.NodeID) bool {
		entries = append(entries, content.ChildEntry{Name: name, ID: id})
		return true
	})
	return entries, nil
}

func (t *memTx) GetCounter(name string) (int64, bool, error) {
	if v, ok := t.counters[name]; ok {
		return v, true, nil
	}
	v, ok := t.db.counters[name]
	return v, ok, nil
}

func (t *memTx) SetCounter(name string, value int64) error {
	t.counters[name] = value
	return nil
}

func (t *memTx) Counters() (map[string]int64, error) {
	out := make(map[string]int64, len(t.db.counters)+len(t.counters))
	for name, v := range t.db.counters {
		out[name] = v
	}
	for name, v := range t.counters {
		out[name] = v
	}
	return out, nil
}

// childIndex returns the staged index for parent if one exists, otherwise
// the base index. forWrite stages a copy-on-write clone on first mutation.
func (t *memTx) childIndex(parent content.NodeID, forWrite bool) *btree.Map[string, content.NodeID] {
	if staged, ok := t.children[parent]; ok {
		return staged
	}
	base, ok := t.db.children[parent]
	if !ok {
		if !forWrite && !t.writable {
			return btree.NewMap[string, content.NodeID](0)
		}
		staged := btree.NewMap[string, content.NodeID](0)
		t.children[parent] = staged
		return staged
	}
	if !forWrite {
		return base
	}
	staged := base.Copy()
	t.children[parent] = staged
	return staged
}

// commit folds the overlays into the base maps. Runs under the database's
// write lock.
func (t *memTx) commit() {
	for id, n := range t.nodes {
		if n == nil {
			delete(t.db.nodes, id)
			delete(t.db.children, id)
			delete(t.children, id)
			continue
		}
		t.db.nodes[id] = n
	}
	for parent, idx := range t.children {
		if idx.Len() == 0 {
			delete(t.db.children, parent)
			continue
		}
		t.db.children[parent] = idx
	}
	for name, v := range t.counters {
		t.db.counters[name] = v
	}
}
