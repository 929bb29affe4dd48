package content

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/marmos91/bytengine/pkg/bytestore"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ServiceConfig carries the policy knobs of the content layer.
type ServiceConfig struct {
	// CopyAttachmentRefs controls whether copy duplicates a file's
	// attachment reference. When true (the default policy), the original
	// and the copy point at the same bytestore object; when false, copies
	// start without an attachment.
	CopyAttachmentRefs bool

	// TicketSecret signs upload/download tickets.
	TicketSecret []byte

	// TicketTTL bounds ticket validity. Zero means the bytestore default.
	TicketTTL time.Duration

	// MaxUploadBytes caps a single attachment upload. Zero means no limit.
	MaxUploadBytes int64
}

// Service implements every content tree, counter and attachment operation on
// top of a pluggable Store. All business logic lives here; the store
// backends only guarantee consistent primitive operations.
type Service struct {
	store     Store
	blobs     bytestore.Store
	tickets   *bytestore.TicketIssuer
	copyRefs  bool
	maxUpload int64
}

// NewService wires a content service from a store and a bytestore.
func NewService(store Store, blobs bytestore.Store, cfg ServiceConfig) *Service {
	return &Service{
		store:     store,
		blobs:     blobs,
		tickets:   bytestore.NewTicketIssuer(cfg.TicketSecret, cfg.TicketTTL),
		copyRefs:  cfg.CopyAttachmentRefs,
		maxUpload: cfg.MaxUploadBytes,
	}
}

// Store exposes the underlying store, mainly for tests.
func (s *Service) Store() Store {
	return s.store
}

// ============================================================================
// Database Operations
// ============================================================================

// CreateDatabase registers a new database with a fresh root directory.
func (s *Service) CreateDatabase(ctx context.Context, db string) error {
	if err := ValidateDatabaseName(db); err != nil {
		return err
	}
	return s.store.CreateDatabase(ctx, db, NewRootNode())
}

// DropDatabase removes a database, all of its nodes and counters, and every
// attachment object stored for it. Irrecoverable.
func (s *Service) DropDatabase(ctx context.Context, db string) error {
	if err := s.store.DropDatabase(ctx, db); err != nil {
		return err
	}
	return s.blobs.DropDatabase(ctx, db)
}

// ListDatabases lists registered databases whose names match the optional
// regex filter (case-insensitive, consistent with every list command).
func (s *Service) ListDatabases(ctx context.Context, filter string) ([]string, error) {
	names, err := s.store.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return names, nil
	}

	re, err := regexp.Compile("(?i)" + filter)
	if err != nil {
		return nil, cerrors.NewInvalidNameError(filter)
	}
	matched := make([]string, 0, len(names))
	for _, name := range names {
		if re.MatchString(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// Initialize ensures every registered database has an intact root
// directory, recreating missing roots. Returns the databases repaired.
func (s *Service) Initialize(ctx context.Context) ([]string, error) {
	names, err := s.store.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	repaired := make([]string, 0)
	for _, db := range names {
		err := s.store.Update(ctx, db, func(tx Tx) error {
			rootID, err := tx.RootID()
			if err != nil {
				return err
			}
			if _, err := tx.GetNode(rootID); err == nil {
				return nil
			}
			root := NewRootNode()
			root.ID = rootID
			if err := tx.PutNode(root); err != nil {
				return err
			}
			repaired = append(repaired, db)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(repaired)
	return repaired, nil
}

// compileListFilter compiles a child-name filter the way list commands
// expect: empty matches everything, otherwise a case-insensitive regex.
func compileListFilter(filter string) (*regexp.Regexp, error) {
	if filter == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + filter)
	if err != nil {
		return nil, cerrors.NewInvalidNameError(filter)
	}
	return re, nil
}

// validateNodeName dispatches to the right validator for a node type.
func validateNodeName(name string, typ NodeType) error {
	if typ == TypeDirectory {
		return ValidateDirName(name)
	}
	return ValidateFileName(name)
}
