package engine

import (
	"context"

	"github.com/marmos91/bytengine/pkg/auth"
	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/query"
)

// handler for: database.select
func dbSelect(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	stmt := query.SelectStatement{
		Fields: cmd.Args["fields"].([]string),
		Dirs:   cmd.Args["dirs"].([]string),
		Limit:  -1,
	}
	if where, ok := cmd.Args["where"]; ok {
		stmt.Where = where.(*bql.Where)
	}
	if keys, ok := cmd.Args["sort"]; ok {
		stmt.Sort = keys.([]bql.SortKey)
	}
	if limit, ok := cmd.Args["limit"]; ok {
		stmt.Limit = limit.(int64)
	}
	if field, ok := cmd.Args["distinct"]; ok {
		stmt.Distinct = field.(string)
	}
	if _, ok := cmd.Args["count"]; ok {
		stmt.Count = true
	}
	return eng.exec.Select(ctx, cmd.Database, stmt)
}

// handler for: database.set
func dbSet(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	stmt := query.SetStatement{
		Fields: cmd.Args["fields"].(map[string]any),
		Dirs:   cmd.Args["dirs"].([]string),
	}
	if incr, ok := cmd.Args["incr"]; ok {
		stmt.Incr = incr.(map[string]float64)
	}
	if where, ok := cmd.Args["where"]; ok {
		stmt.Where = where.(*bql.Where)
	}
	return eng.exec.Set(ctx, cmd.Database, stmt)
}

// handler for: database.unset
func dbUnset(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error) {
	stmt := query.UnsetStatement{
		Fields: cmd.Args["fields"].([]string),
		Dirs:   cmd.Args["dirs"].([]string),
	}
	if where, ok := cmd.Args["where"]; ok {
		stmt.Where = where.(*bql.Where)
	}
	return eng.exec.Unset(ctx, cmd.Database, stmt)
}

// registerCoreHandlers installs every built-in command.
func (eng *Engine) registerCoreHandlers() {
	core := map[string]CommandHandler{
		"server.listdb": serverListDb,
		"server.newdb":  serverNewDb,
		"server.dropdb": serverDropDb,
		"server.init":   serverInit,

		"user.new":    userNew,
		"user.all":    userAll,
		"user.about":  userAbout,
		"user.delete": userDelete,
		"user.passw":  userPassw,
		"user.access": userAccess,
		"user.db":     userDb,
		"user.whoami": userWhoami,

		"database.newdir":      dbNewDir,
		"database.newfile":     dbNewFile,
		"database.listdir":     dbListDir,
		"database.rename":      dbRename,
		"database.move":        dbMove,
		"database.copy":        dbCopy,
		"database.delete":      dbDelete,
		"database.info":        dbInfo,
		"database.makepublic":  dbMakePublic,
		"database.makeprivate": dbMakePrivate,
		"database.readfile":    dbReadFile,
		"database.modfile":     dbModFile,
		"database.deletebytes": dbDeleteBytes,
		"database.counter":     dbCounter,
		"database.select":      dbSelect,
		"database.set":         dbSet,
		"database.unset":       dbUnset,
	}
	for name, fn := range core {
		eng.handlers[name] = fn
	}
}
