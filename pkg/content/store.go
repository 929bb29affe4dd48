package content

import "context"

// ChildEntry is one (name, id) pair in a directory's child index.
type ChildEntry struct {
	Name string
	ID   NodeID
}

// Tx is the set of primitive operations a store exposes inside a
// transaction. Implementations guarantee that everything executed within a
// single View/Update callback observes (and, for Update, produces) a
// consistent state of one database: two concurrent Update calls that both
// check a name and then claim it can never both succeed.
//
// Tx carries no business logic. Collision checks, validation and recursion
// belong to the Service.
type Tx interface {
	// RootID returns the database's root directory identifier.
	RootID() (NodeID, error)

	// GetNode retrieves a node by id. Returns ErrPathNotFound if absent.
	GetNode(id NodeID) (*Node, error)

	// PutNode inserts or overwrites a node record. It does not touch the
	// child index; pair it with SetChild/RemoveChild.
	PutNode(n *Node) error

	// DeleteNode removes a node record by id.
	DeleteNode(id NodeID) error

	// GetChild resolves a name in a directory to a child id.
	GetChild(parent NodeID, name string) (NodeID, bool, error)

	// SetChild adds or updates a child entry in a directory's index.
	SetChild(parent NodeID, name string, child NodeID) error

	// RemoveChild removes a child entry from a directory's index.
	RemoveChild(parent NodeID, name string) error

	// Children lists a directory's child entries ordered by name.
	Children(parent NodeID) ([]ChildEntry, error)

	// GetCounter reads a counter value. The boolean reports existence.
	GetCounter(name string) (int64, bool, error)

	// SetCounter writes a counter value, creating it if needed.
	SetCounter(name string, value int64) error

	// Counters returns all counters as a name-to-value mapping.
	Counters() (map[string]int64, error)
}

// Store is the persistence boundary of the content tree and counter store.
// A single Store instance manages every database of a deployment.
//
// Implementations: store/memory (per-database RWMutex over in-process maps)
// and store/badger (BadgerDB with prefixed key namespaces).
type Store interface {
	// CreateDatabase registers a database and installs its root directory.
	// Fails with ErrAlreadyExists if the database is already registered.
	CreateDatabase(ctx context.Context, db string, root *Node) error

	// DropDatabase removes a database with all nodes and counters.
	// Irrecoverable. Fails with ErrDatabaseNotFound if absent.
	DropDatabase(ctx context.Context, db string) error

	// ListDatabases returns all registered database names, sorted.
	ListDatabases(ctx context.Context) ([]string, error)

	// View runs fn against a read-only snapshot of one database.
	View(ctx context.Context, db string, fn func(tx Tx) error) error

	// Update runs fn in a writable transaction against one database.
	// If fn returns an error, no mutation is applied.
	Update(ctx context.Context, db string, fn func(tx Tx) error) error

	// Close releases the store's resources.
	Close() error
}
