package engine

import (
	"context"

	"github.com/marmos91/bytengine/pkg/auth"
	"github.com/marmos91/bytengine/pkg/bql"
)

// handler for: server.listdb
func serverListDb(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	return eng.content.ListDatabases(ctx, regexOption(cmd))
}

// handler for: server.newdb
func serverNewDb(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	db := cmd.Args["database"].(string)
	if err := eng.content.CreateDatabase(ctx, db); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: server.dropdb
func serverDropDb(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	db := cmd.Args["database"].(string)
	if err := eng.content.DropDatabase(ctx, db); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: server.init
func serverInit(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	return eng.content.Initialize(ctx)
}

// handler for: user.new
func userNew(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	password := cmd.Args["password"].(string)
	if err := eng.auth.NewUser(ctx, username, password, false); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: user.all
func userAll(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	return eng.auth.ListUsers(ctx, regexOption(cmd))
}

// handler for: user.about
func userAbout(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	return eng.auth.UserInfo(ctx, username)
}

// handler for: user.delete
func userDelete(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	if err := eng.auth.RemoveUser(ctx, username); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: user.passw
func userPassw(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	password := cmd.Args["password"].(string)
	if err := eng.auth.ChangePassword(ctx, username, password); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: user.access
func userAccess(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	grant := cmd.Args["grant"].(bool)
	if err := eng.auth.SetActive(ctx, username, grant); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: user.db
func userDb(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	username := cmd.Args["username"].(string)
	db := cmd.Args["database"].(string)
	grant := cmd.Args["grant"].(bool)
	if err := eng.auth.SetDatabaseAccess(ctx, username, db, grant); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: user.whoami
func userWhoami(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	return map[string]any{
		"username":  user.Username,
		"databases": user.Databases,
		"root":      user.Root,
	}, nil
}
