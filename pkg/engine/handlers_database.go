package engine

import (
	"context"

	"github.com/marmos91/bytengine/pkg/auth"
	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/content"
)

// handler for: database.newdir
func dbNewDir(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	if err := eng.content.NewDir(ctx, cmd.Database, path); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.newfile
func dbNewFile(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	data := cmd.Args["data"].(map[string]any)
	if err := eng.content.NewFile(ctx, cmd.Database, path, data); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.listdir
func dbListDir(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	filter := regexOption(cmd)
	return eng.content.ListDir(ctx, cmd.Database, path, filter)
}

// handler for: database.rename
func dbRename(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	name := cmd.Args["name"].(string)
	if err := eng.content.Rename(ctx, cmd.Database, path, name); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.move
func dbMove(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	to := cmd.Args["to"].(string)
	if err := eng.content.Move(ctx, cmd.Database, path, to); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.copy
func dbCopy(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	to := cmd.Args["to"].(string)
	if err := eng.content.Copy(ctx, cmd.Database, path, to); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.delete
func dbDelete(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	if err := eng.content.Delete(ctx, cmd.Database, path); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.info
func dbInfo(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	return eng.content.Info(ctx, cmd.Database, path)
}

// handler for: database.makepublic
func dbMakePublic(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	if err := eng.content.SetAccess(ctx, cmd.Database, path, true); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.makeprivate
func dbMakePrivate(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	if err := eng.content.SetAccess(ctx, cmd.Database, path, false); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.readfile
func dbReadFile(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	fields := cmd.Args["fields"].([]string)
	return eng.content.ReadFile(ctx, cmd.Database, path, fields)
}

// handler for: database.modfile
func dbModFile(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	data := cmd.Args["data"].(map[string]any)
	if err := eng.content.ModFile(ctx, cmd.Database, path, data); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.deletebytes
func dbDeleteBytes(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	path := cmd.Args["path"].(string)
	if err := eng.content.DeleteAttachment(ctx, cmd.Database, path); err != nil {
		return nil, err
	}
	return true, nil
}

// handler for: database.counter
func dbCounter(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	action := cmd.Args["action"].(string)
	if action == "list" {
		return eng.content.ListCounters(ctx, cmd.Database, regexOption(cmd))
	}
	name := cmd.Args["name"].(string)
	value := cmd.Args["value"].(int64)
	return eng.content.SetCounter(ctx, cmd.Database, name, content.CounterAction(action), value)
}

// regexOption returns the --regex option value, or "" for no filtering.
func regexOption(cmd bql.Command) string {
	if val, ok := cmd.Options["regex"]; ok {
		return val.(string)
	}
	return ""
}
