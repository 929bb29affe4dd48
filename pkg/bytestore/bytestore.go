// Package bytestore defines the attachment byte storage boundary. A file
// node carries at most one binary attachment; the content layer stores only
// the descriptor (object name, mime, size) while the bytes live behind this
// interface. Implementations: bytestore/memory and bytestore/disk.
package bytestore

import (
	"context"
	"io"
)

// ObjectInfo describes a stored attachment object.
type ObjectInfo struct {
	Name string
	Size int64
	Mime string
}

// Store stores attachment bytes per database, addressed by opaque object
// names. Object names are generated by Add and never reused.
type Store interface {
	// Add stores a new object and returns its generated name, size and
	// detected mime type.
	Add(ctx context.Context, db string, r io.Reader) (*ObjectInfo, error)

	// Update overwrites an existing object in place, keeping its name.
	Update(ctx context.Context, db, name string, r io.Reader) (*ObjectInfo, error)

	// Read streams an object's bytes to w.
	Read(ctx context.Context, db, name string, w io.Writer) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, db, name string) error

	// DropDatabase removes every object stored for a database.
	DropDatabase(ctx context.Context, db string) error

	// Close releases the store's resources.
	Close() error
}
