package engine_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

func TestAttachmentTransfer(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	token := rootLogin(t, eng)

	_, err := eng.ExecuteScript(ctx, token,
		`server.newdb "store"; @store.newfile /report {"title": "q1"}`)
	require.NoError(t, err)

	upTicket, err := eng.UploadTicket(ctx, token, "store", "/report")
	require.NoError(t, err)
	require.NoError(t, eng.WriteBytes(ctx, upTicket, strings.NewReader("attachment payload")))

	downTicket, err := eng.DownloadTicket(ctx, token, "store", "/report")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, eng.ServeBytes(ctx, downTicket, &buf))
	assert.Equal(t, "attachment payload", buf.String())

	// Session-bound read works without a ticket.
	buf.Reset()
	require.NoError(t, eng.ReadBytes(ctx, token, "store", "/report", &buf))
	assert.Equal(t, "attachment payload", buf.String())
}

func TestTransferRequiresSession(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	token := rootLogin(t, eng)

	_, err := eng.ExecuteScript(ctx, token,
		`server.newdb "store"; @store.newfile /report {"title": "q1"}`)
	require.NoError(t, err)

	_, err = eng.UploadTicket(ctx, "", "store", "/report")
	assertCode(t, err, cerrors.ErrPermissionDenied)
	_, err = eng.DownloadTicket(ctx, "", "store", "/report")
	assertCode(t, err, cerrors.ErrPermissionDenied)
}

func TestTicketsAreSinglePurpose(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	token := rootLogin(t, eng)

	_, err := eng.ExecuteScript(ctx, token,
		`server.newdb "store"; @store.newfile /report {"title": "q1"}`)
	require.NoError(t, err)

	upTicket, err := eng.UploadTicket(ctx, token, "store", "/report")
	require.NoError(t, err)
	require.NoError(t, eng.WriteBytes(ctx, upTicket, strings.NewReader("data")))

	var buf bytes.Buffer
	err = eng.ServeBytes(ctx, upTicket, &buf)
	assertCode(t, err, cerrors.ErrInvalidTicket)
}

func TestDirectAccess(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	token := rootLogin(t, eng)

	_, err := eng.ExecuteScript(ctx, token,
		`server.newdb "store"; @store.newfile /report {"title": "q1"}`)
	require.NoError(t, err)

	// Private files are indistinguishable from missing ones.
	var buf bytes.Buffer
	_, err = eng.DirectAccess(ctx, "store", "/report", content.LayerJSON, &buf)
	assertCode(t, err, cerrors.ErrNotPublic)

	_, err = eng.ExecuteScript(ctx, token, `@store.makepublic /report`)
	require.NoError(t, err)

	buf.Reset()
	_, err = eng.DirectAccess(ctx, "store", "/report", content.LayerJSON, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"title":"q1"`)
}
