package content

import (
	"context"
	"io"

	"github.com/marmos91/bytengine/pkg/bytestore"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ============================================================================
// Document Operations
// ============================================================================

// ReadFile returns a file's document, optionally projected to the given
// dotted field paths. Absent fields are omitted from the projection.
func (s *Service) ReadFile(ctx context.Context, db, p string, fields []string) (map[string]any, error) {
	var doc map[string]any
	err := s.store.View(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			doc = ProjectFields(node.Content, fields)
		} else {
			doc = CloneDocument(node.Content)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ModFile replaces a file's document wholesale. The attachment, if any, is
// untouched.
func (s *Service) ModFile(ctx context.Context, db, p string, doc map[string]any) error {
	if doc == nil {
		return cerrors.NewInvalidJSONError("document root must be a JSON object")
	}
	return s.store.Update(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		node.Content = CloneDocument(doc)
		return tx.PutNode(node)
	})
}

// ============================================================================
// Attachment Operations
// ============================================================================

// WriteBytes attaches the bytes read from r to the file at p, replacing any
// existing attachment object in place.
func (s *Service) WriteBytes(ctx context.Context, db, p string, r io.Reader) error {
	// Check the target first so a bad path does not leave an orphaned
	// object behind.
	var existing *Attachment
	err := s.store.View(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		existing = node.Attachment
		return nil
	})
	if err != nil {
		return err
	}

	if s.maxUpload > 0 {
		r = &cappedReader{r: r, left: s.maxUpload}
	}

	var info *bytestore.ObjectInfo
	if existing != nil {
		info, err = s.blobs.Update(ctx, db, existing.Ref, r)
	} else {
		info, err = s.blobs.Add(ctx, db, r)
	}
	if err != nil {
		return err
	}

	return s.store.Update(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		node.Attachment = &Attachment{Ref: info.Name, Mime: info.Mime, Size: info.Size}
		return tx.PutNode(node)
	})
}

// cappedReader fails the upload once more than the configured limit has
// been read, instead of silently truncating.
type cappedReader struct {
	r    io.Reader
	left int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, cerrors.New(cerrors.ErrIllegalOperation, "attachment exceeds upload size limit")
	}
	return n, err
}

// ReadBytes streams a file's attachment to w.
func (s *Service) ReadBytes(ctx context.Context, db, p string, w io.Writer) error {
	att, err := s.attachmentOf(ctx, db, p)
	if err != nil {
		return err
	}
	return s.blobs.Read(ctx, db, att.Ref, w)
}

// DeleteAttachment detaches and deletes a file's attachment bytes. The
// document is untouched. A file without an attachment is left as is.
func (s *Service) DeleteAttachment(ctx context.Context, db, p string) error {
	var ref string
	err := s.store.Update(ctx, db, func(tx Tx) error {
		ref = ""
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		if node.Attachment == nil {
			return nil
		}
		ref = node.Attachment.Ref
		node.Attachment = nil
		return tx.PutNode(node)
	})
	if err != nil {
		return err
	}
	if ref == "" {
		return nil
	}
	return s.blobs.Delete(ctx, db, ref)
}

func (s *Service) attachmentOf(ctx context.Context, db, p string) (*Attachment, error) {
	var att *Attachment
	err := s.store.View(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, p)
		if err != nil {
			return err
		}
		if node.Attachment == nil {
			return cerrors.NewNoAttachmentError(CleanPath(p))
		}
		att = node.Attachment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return att, nil
}

// ============================================================================
// Transfer Tickets
// ============================================================================
//
// Uploads and downloads run out of band: the core issues a signed,
// short-lived ticket naming (db, path, direction), and the transport layer
// redeems it when the client connects with the actual bytes.

// BeginUpload issues an upload ticket for the file at p. The target must
// already exist so a bad path fails here rather than mid-transfer.
func (s *Service) BeginUpload(ctx context.Context, db, p string) (string, error) {
	err := s.store.View(ctx, db, func(tx Tx) error {
		_, err := ResolveFile(tx, p)
		return err
	})
	if err != nil {
		return "", err
	}
	return s.tickets.Issue(db, CleanPath(p), bytestore.TicketUpload)
}

// CommitUpload redeems an upload ticket, attaching the bytes read from r to
// the file the ticket was issued for.
func (s *Service) CommitUpload(ctx context.Context, ticket string, r io.Reader) error {
	db, p, err := s.tickets.Verify(ticket, bytestore.TicketUpload)
	if err != nil {
		return cerrors.NewInvalidTicketError(err.Error())
	}
	return s.WriteBytes(ctx, db, p, r)
}

// BeginDownload issues a download ticket for the file at p. The file must
// carry an attachment.
func (s *Service) BeginDownload(ctx context.Context, db, p string) (string, error) {
	if _, err := s.attachmentOf(ctx, db, p); err != nil {
		return "", err
	}
	return s.tickets.Issue(db, CleanPath(p), bytestore.TicketDownload)
}

// ServeDownload redeems a download ticket, streaming the attachment to w.
func (s *Service) ServeDownload(ctx context.Context, ticket string, w io.Writer) error {
	db, p, err := s.tickets.Verify(ticket, bytestore.TicketDownload)
	if err != nil {
		return cerrors.NewInvalidTicketError(err.Error())
	}
	return s.ReadBytes(ctx, db, p, w)
}

// ============================================================================
// Direct Access
// ============================================================================

// DirectAccessLayer selects what a direct (unauthenticated) access returns.
type DirectAccessLayer string

const (
	// LayerJSON returns the file's document.
	LayerJSON DirectAccessLayer = "json"
	// LayerBytes streams the file's attachment.
	LayerBytes DirectAccessLayer = "bytes"
)

// DirectRead serves an anonymous read of a public file. For LayerJSON the
// document is returned; for LayerBytes the attachment is streamed to w and
// its mime type returned. Non-public files fail with ErrNotPublic regardless
// of whether they exist, so direct access cannot probe private trees.
func (s *Service) DirectRead(ctx context.Context, db, p string, layer DirectAccessLayer, w io.Writer) (map[string]any, string, error) {
	var (
		doc  map[string]any
		att  *Attachment
		path = CleanPath(p)
	)
	err := s.store.View(ctx, db, func(tx Tx) error {
		node, err := ResolveFile(tx, path)
		if err != nil {
			return cerrors.NewNotPublicError(path)
		}
		if !node.Public {
			return cerrors.NewNotPublicError(path)
		}
		switch layer {
		case LayerBytes:
			if node.Attachment == nil {
				return cerrors.NewNoAttachmentError(path)
			}
			att = node.Attachment
		default:
			doc = CloneDocument(node.Content)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if att != nil {
		if err := s.blobs.Read(ctx, db, att.Ref, w); err != nil {
			return nil, "", err
		}
		return nil, att.Mime, nil
	}
	return doc, "", nil
}
