// Package memory provides an in-process bytestore implementation, used by
// tests and by deployments that don't need attachments to survive restarts.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/marmos91/bytengine/pkg/bytestore"
)

// ByteStore keeps attachment objects in process memory, namespaced per
// database. Safe for concurrent use.
type ByteStore struct {
	mu  sync.RWMutex
	dbs map[string]map[string][]byte
}

// New creates an empty in-memory bytestore.
func New() *ByteStore {
	return &ByteStore{dbs: make(map[string]map[string][]byte)}
}

var _ bytestore.Store = (*ByteStore)(nil)

func newObjectName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Add stores a new object under a generated name.
func (s *ByteStore) Add(ctx context.Context, db string, r io.Reader) (*bytestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	name := newObjectName()

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.dbs[db]
	if !ok {
		objects = make(map[string][]byte)
		s.dbs[db] = objects
	}
	objects[name] = data

	return &bytestore.ObjectInfo{
		Name: name,
		Size: int64(len(data)),
		Mime: mimetype.Detect(data).String(),
	}, nil
}

// Update overwrites an existing object, keeping its name.
func (s *ByteStore) Update(ctx context.Context, db, name string, r io.Reader) (*bytestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.dbs[db]
	if !ok {
		return nil, fmt.Errorf("object %q not found in database %q", name, db)
	}
	if _, ok := objects[name]; !ok {
		return nil, fmt.Errorf("object %q not found in database %q", name, db)
	}
	objects[name] = data

	return &bytestore.ObjectInfo{
		Name: name,
		Size: int64(len(data)),
		Mime: mimetype.Detect(data).String(),
	}, nil
}

// Read streams an object to w.
func (s *ByteStore) Read(ctx context.Context, db, name string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	data, ok := s.dbs[db][name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("object %q not found in database %q", name, db)
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

// Delete removes an object. Missing objects are ignored.
func (s *ByteStore) Delete(ctx context.Context, db, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if objects, ok := s.dbs[db]; ok {
		delete(objects, name)
	}
	return nil
}

// DropDatabase removes every object of a database.
func (s *ByteStore) DropDatabase(ctx context.Context, db string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.dbs, db)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *ByteStore) Close() error {
	return nil
}
