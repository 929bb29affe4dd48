package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

func TestNewUserAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()

	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))

	u, err := a.Authenticate(ctx, "alice", "alicepass")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.Active)
	assert.False(t, u.Root)

	_, err = a.Authenticate(ctx, "alice", "wrongpass")
	assert.Equal(t, cerrors.ErrPermissionDenied, cerrors.CodeOf(err))
	_, err = a.Authenticate(ctx, "nobody", "alicepass")
	assert.Equal(t, cerrors.ErrPermissionDenied, cerrors.CodeOf(err))
}

func TestNewUserValidation(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()

	err := a.NewUser(ctx, "Alice", "alicepass", false)
	assert.Equal(t, cerrors.ErrInvalidName, cerrors.CodeOf(err))

	err = a.NewUser(ctx, "guest", "alicepass", false)
	assert.Equal(t, cerrors.ErrInvalidName, cerrors.CodeOf(err))

	err = a.NewUser(ctx, "alice", "short", false)
	assert.Equal(t, cerrors.ErrIllegalOperation, cerrors.CodeOf(err))

	err = a.NewUser(ctx, "alice", "has space", false)
	assert.Equal(t, cerrors.ErrIllegalOperation, cerrors.CodeOf(err))

	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))
	err = a.NewUser(ctx, "alice", "otherpass", false)
	assert.Equal(t, cerrors.ErrAlreadyExists, cerrors.CodeOf(err))
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "bob", "bobspass1", false))
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))

	names, err := a.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)

	names, err = a.ListUsers(ctx, "^A")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)

	_, err = a.ListUsers(ctx, "[")
	assert.Equal(t, cerrors.ErrQuerySyntax, cerrors.CodeOf(err))
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))

	require.NoError(t, a.ChangePassword(ctx, "alice", "newerpass"))
	_, err := a.Authenticate(ctx, "alice", "alicepass")
	require.Error(t, err)
	_, err = a.Authenticate(ctx, "alice", "newerpass")
	require.NoError(t, err)

	err = a.ChangePassword(ctx, "nobody", "newerpass")
	assert.Equal(t, cerrors.ErrPathNotFound, cerrors.CodeOf(err))
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))

	require.NoError(t, a.SetActive(ctx, "alice", false))
	_, err := a.Authenticate(ctx, "alice", "alicepass")
	assert.Equal(t, cerrors.ErrPermissionDenied, cerrors.CodeOf(err))

	require.NoError(t, a.SetActive(ctx, "alice", true))
	_, err = a.Authenticate(ctx, "alice", "alicepass")
	require.NoError(t, err)
}

func TestDatabaseAccess(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))

	require.NoError(t, a.SetDatabaseAccess(ctx, "alice", "store", true))
	require.NoError(t, a.SetDatabaseAccess(ctx, "alice", "archive", true))
	// Granting twice does not duplicate the entry.
	require.NoError(t, a.SetDatabaseAccess(ctx, "alice", "store", true))

	u, err := a.UserInfo(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "store"}, u.Databases)
	assert.True(t, u.HasDatabase("store"))
	assert.False(t, u.HasDatabase("other"))

	require.NoError(t, a.SetDatabaseAccess(ctx, "alice", "store", false))
	u, err = a.UserInfo(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, u.Databases)
}

func TestRemoveUser(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))
	require.NoError(t, a.RemoveUser(ctx, "alice"))

	err := a.RemoveUser(ctx, "alice")
	assert.Equal(t, cerrors.ErrPathNotFound, cerrors.CodeOf(err))
	_, err = a.UserInfo(ctx, "alice")
	assert.Equal(t, cerrors.ErrPathNotFound, cerrors.CodeOf(err))
}

func TestRootHasEveryDatabase(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "admin", "rootpass1", true))

	u, err := a.UserInfo(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, u.Root)
	assert.True(t, u.HasDatabase("anything"))
}

func TestUserInfoReturnsCopy(t *testing.T) {
	ctx := context.Background()
	a := NewAuthenticator()
	require.NoError(t, a.NewUser(ctx, "alice", "alicepass", false))
	require.NoError(t, a.SetDatabaseAccess(ctx, "alice", "store", true))

	u, err := a.UserInfo(ctx, "alice")
	require.NoError(t, err)
	u.Databases[0] = "tampered"
	u.Active = false

	fresh, err := a.UserInfo(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"store"}, fresh.Databases)
	assert.True(t, fresh.Active)
}
