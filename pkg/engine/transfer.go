package engine

import (
	"context"
	"io"

	"github.com/marmos91/bytengine/internal/logger"
	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ============================================================================
// Attachment transfer surface
//
// These endpoints sit outside the script surface: uploads and downloads are
// authorized once by a signed ticket, then the bytes stream without another
// session check.
// ============================================================================

// UploadTicket issues a ticket authorizing one attachment upload to the
// given file. The caller must hold a session with access to the database.
func (eng *Engine) UploadTicket(ctx context.Context, token, db, path string) (string, error) {
	user, err := eng.checkUser(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", cerrors.NewPermissionDeniedError("authorization required")
	}
	if !user.HasDatabase(db) {
		return "", cerrors.NewPermissionDeniedError("user not authorized for database")
	}
	return eng.content.BeginUpload(ctx, db, path)
}

// WriteBytes stores attachment bytes under a previously issued upload
// ticket. The ticket is the sole authorization.
func (eng *Engine) WriteBytes(ctx context.Context, ticket string, r io.Reader) error {
	if err := eng.content.CommitUpload(ctx, ticket, r); err != nil {
		return err
	}
	logger.DebugCtx(ctx, "attachment uploaded")
	return nil
}

// DownloadTicket issues a ticket authorizing one attachment download from
// the given file.
func (eng *Engine) DownloadTicket(ctx context.Context, token, db, path string) (string, error) {
	user, err := eng.checkUser(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", cerrors.NewPermissionDeniedError("authorization required")
	}
	if !user.HasDatabase(db) {
		return "", cerrors.NewPermissionDeniedError("user not authorized for database")
	}
	return eng.content.BeginDownload(ctx, db, path)
}

// ServeBytes streams attachment bytes under a previously issued download
// ticket.
func (eng *Engine) ServeBytes(ctx context.Context, ticket string, w io.Writer) error {
	return eng.content.ServeDownload(ctx, ticket, w)
}

// ReadBytes streams a file's attachment to w on behalf of a session.
func (eng *Engine) ReadBytes(ctx context.Context, token, db, path string, w io.Writer) error {
	user, err := eng.checkUser(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return cerrors.NewPermissionDeniedError("authorization required")
	}
	if !user.HasDatabase(db) {
		return cerrors.NewPermissionDeniedError("user not authorized for database")
	}
	return eng.content.ReadBytes(ctx, db, path, w)
}

// DirectAccess serves an anonymous read of a public file: the document for
// layer "json", the attachment bytes for layer "bytes". Returns the
// attachment mime type when streaming bytes.
func (eng *Engine) DirectAccess(ctx context.Context, db, path string, layer content.DirectAccessLayer, w io.Writer) (string, error) {
	doc, mime, err := eng.content.DirectRead(ctx, db, path, layer, w)
	if err != nil {
		return "", err
	}
	if doc != nil {
		r := OKResponse(doc)
		if _, err := w.Write(r.JSON()); err != nil {
			return "", err
		}
	}
	return mime, nil
}
