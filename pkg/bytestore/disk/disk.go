// Package disk provides a bytestore backed by a local directory tree:
// one subdirectory per database, one file per attachment object.
package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/marmos91/bytengine/pkg/bytestore"
)

// ByteStore stores attachment objects as files under a root directory.
// Object names are generated, so concurrent writers never collide on paths.
type ByteStore struct {
	root string
}

// New creates a disk bytestore rooted at dir, creating it if needed.
func New(dir string) (*ByteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bytestore root: %w", err)
	}
	return &ByteStore{root: dir}, nil
}

var _ bytestore.Store = (*ByteStore)(nil)

func (s *ByteStore) objectPath(db, name string) string {
	return filepath.Join(s.root, db, name)
}

func newObjectName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *ByteStore) write(db, name string, r io.Reader) (*bytestore.ObjectInfo, error) {
	dir := filepath.Join(s.root, db)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := s.objectPath(db, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}

	return &bytestore.ObjectInfo{Name: name, Size: size, Mime: mime.String()}, nil
}

// Add stores a new object under a generated name.
func (s *ByteStore) Add(ctx context.Context, db string, r io.Reader) (*bytestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.write(db, newObjectName(), r)
}

// Update overwrites an existing object, keeping its name.
func (s *ByteStore) Update(ctx context.Context, db, name string, r io.Reader) (*bytestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.objectPath(db, name)); err != nil {
		return nil, fmt.Errorf("object %q not found in database %q", name, db)
	}
	return s.write(db, name, r)
}

// Read streams an object to w.
func (s *ByteStore) Read(ctx context.Context, db, name string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(s.objectPath(db, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("object %q not found in database %q", name, db)
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Delete removes an object. Missing objects are ignored.
func (s *ByteStore) Delete(ctx context.Context, db, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.objectPath(db, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DropDatabase removes every object of a database.
func (s *ByteStore) DropDatabase(ctx context.Context, db string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.root, db))
}

// Close is a no-op for the disk store.
func (s *ByteStore) Close() error {
	return nil
}
