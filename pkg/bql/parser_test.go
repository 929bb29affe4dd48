package bql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

func parseOne(t *testing.T, script string) Command {
	t.Helper()
	cmds, err := NewParser().Parse(script)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	return cmds[0]
}

func parseErr(t *testing.T, script string) error {
	t.Helper()
	_, err := NewParser().Parse(script)
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrQuerySyntax, cerrors.CodeOf(err))
	return err
}

// ============================================================================
// server.* / user.*
// ============================================================================

func TestParse_ServerCommands(t *testing.T) {
	cmd := parseOne(t, `server.listdb;`)
	assert.Equal(t, "server.listdb", cmd.Name)
	assert.True(t, cmd.IsAdmin)
	assert.Empty(t, cmd.Database)

	cmd = parseOne(t, `server.listdb --regex="^test";`)
	assert.Equal(t, "^test", cmd.Options["regex"])

	cmd = parseOne(t, `server.newdb "inventory";`)
	assert.Equal(t, "server.newdb", cmd.Name)
	assert.Equal(t, "inventory", cmd.Args["database"])

	cmd = parseOne(t, `server.dropdb "inventory";`)
	assert.Equal(t, "server.dropdb", cmd.Name)

	cmd = parseOne(t, `server.init;`)
	assert.Equal(t, "server.init", cmd.Name)
}

func TestParse_ServerAliases(t *testing.T) {
	cmd := parseOne(t, `server.dbs;`)
	assert.Equal(t, "server.listdb", cmd.Name)
}

func TestParse_UserCommands(t *testing.T) {
	cmd := parseOne(t, `user.new "alice" "secretpw";`)
	assert.Equal(t, "user.new", cmd.Name)
	assert.True(t, cmd.IsAdmin)
	assert.Equal(t, "alice", cmd.Args["username"])
	assert.Equal(t, "secretpw", cmd.Args["password"])

	cmd = parseOne(t, `user.all --regex="^a";`)
	assert.Equal(t, "user.all", cmd.Name)
	assert.Equal(t, "^a", cmd.Options["regex"])

	cmd = parseOne(t, `user.about "alice";`)
	assert.Equal(t, "alice", cmd.Args["username"])

	cmd = parseOne(t, `user.rm "alice";`)
	assert.Equal(t, "user.delete", cmd.Name)

	cmd = parseOne(t, `user.passw "alice" "newpw123";`)
	assert.Equal(t, "user.passw", cmd.Name)

	cmd = parseOne(t, `user.access "alice" deny;`)
	assert.Equal(t, false, cmd.Args["grant"])

	cmd = parseOne(t, `user.db "alice" "inventory" grant;`)
	assert.Equal(t, "user.db", cmd.Name)
	assert.Equal(t, "inventory", cmd.Args["database"])
	assert.Equal(t, true, cmd.Args["grant"])

	cmd = parseOne(t, `user.whoami;`)
	assert.Equal(t, "user.whoami", cmd.Name)
	assert.False(t, cmd.IsAdmin)
}

// ============================================================================
// @db.* content commands
// ============================================================================

func TestParse_ContentCommands(t *testing.T) {
	cmd := parseOne(t, `@docs.newdir /reports/2026;`)
	assert.Equal(t, "database.newdir", cmd.Name)
	assert.Equal(t, "docs", cmd.Database)
	assert.False(t, cmd.IsAdmin)
	assert.Equal(t, "/reports/2026", cmd.Args["path"])

	cmd = parseOne(t, `@docs.newfile /reports/q1 {"total": 42, "done": true};`)
	assert.Equal(t, "database.newfile", cmd.Name)
	data, ok := cmd.Args["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), data["total"])
	assert.Equal(t, true, data["done"])

	cmd = parseOne(t, `@docs.listdir / --regex="^q";`)
	assert.Equal(t, "database.listdir", cmd.Name)
	assert.Equal(t, "/", cmd.Args["path"])
	assert.Equal(t, "^q", cmd.Options["regex"])

	cmd = parseOne(t, `@docs.rename /reports/q1 "q1-final";`)
	assert.Equal(t, "q1-final", cmd.Args["name"])

	cmd = parseOne(t, `@docs.move /reports/q1 /archive;`)
	assert.Equal(t, "database.move", cmd.Name)
	assert.Equal(t, "/reports/q1", cmd.Args["path"])
	assert.Equal(t, "/archive", cmd.Args["to"])

	cmd = parseOne(t, `@docs.copy /reports /backup;`)
	assert.Equal(t, "database.copy", cmd.Name)

	cmd = parseOne(t, `@docs.delete /reports/q1;`)
	assert.Equal(t, "database.delete", cmd.Name)

	cmd = parseOne(t, `@docs.info /reports;`)
	assert.Equal(t, "database.info", cmd.Name)

	cmd = parseOne(t, `@docs.makepublic /reports/q1;`)
	assert.Equal(t, "database.makepublic", cmd.Name)

	cmd = parseOne(t, `@docs.makeprivate /reports/q1;`)
	assert.Equal(t, "database.makeprivate", cmd.Name)

	cmd = parseOne(t, `@docs.readfile /reports/q1 ["total", "done"];`)
	assert.Equal(t, "database.readfile", cmd.Name)
	assert.Equal(t, []string{"total", "done"}, cmd.Args["fields"])

	cmd = parseOne(t, `@docs.readfile /reports/q1;`)
	assert.Equal(t, []string{}, cmd.Args["fields"])

	cmd = parseOne(t, `@docs.modfile /reports/q1 {"total": 50};`)
	assert.Equal(t, "database.modfile", cmd.Name)

	cmd = parseOne(t, `@docs.deletebytes /reports/q1;`)
	assert.Equal(t, "database.deletebytes", cmd.Name)
}

func TestParse_ContentAliases(t *testing.T) {
	assert.Equal(t, "database.newdir", parseOne(t, `@db.mkdir /a;`).Name)
	assert.Equal(t, "database.newfile", parseOne(t, `@db.write /a {};`).Name)
	assert.Equal(t, "database.listdir", parseOne(t, `@db.ls /;`).Name)
	assert.Equal(t, "database.move", parseOne(t, `@db.mv /a /b;`).Name)
	assert.Equal(t, "database.copy", parseOne(t, `@db.cp /a /b;`).Name)
	assert.Equal(t, "database.delete", parseOne(t, `@db.rm /a;`).Name)
	assert.Equal(t, "database.readfile", parseOne(t, `@db.read /a;`).Name)
	assert.Equal(t, "database.modfile", parseOne(t, `@db.update /a {};`).Name)
	assert.Equal(t, "database.makepublic", parseOne(t, `@db.public /a;`).Name)
	assert.Equal(t, "database.makeprivate", parseOne(t, `@db.private /a;`).Name)
}

func TestParse_CounterCommands(t *testing.T) {
	cmd := parseOne(t, `@docs.counter "visits" incr 5;`)
	assert.Equal(t, "database.counter", cmd.Name)
	assert.Equal(t, "visits", cmd.Args["name"])
	assert.Equal(t, "incr", cmd.Args["action"])
	assert.Equal(t, int64(5), cmd.Args["value"])

	cmd = parseOne(t, `@docs.counter "visits" decr 2;`)
	assert.Equal(t, "decr", cmd.Args["action"])

	cmd = parseOne(t, `@docs.counter "visits" reset 0;`)
	assert.Equal(t, "reset", cmd.Args["action"])

	cmd = parseOne(t, `@docs.counter list --regex="^vis";`)
	assert.Equal(t, "list", cmd.Args["action"])
	assert.Equal(t, "^vis", cmd.Options["regex"])

	parseErr(t, `@docs.counter "visits" bump 1;`)
}

// ============================================================================
// select / set / unset
// ============================================================================

func TestParse_Select(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" "age" in /users /staff;`)
	assert.Equal(t, "database.select", cmd.Name)
	assert.Equal(t, []string{"name", "age"}, cmd.Args["fields"])
	assert.Equal(t, []string{"/users", "/staff"}, cmd.Args["dirs"])
	assert.Nil(t, cmd.Args["where"])
}

func TestParse_SelectWhere(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where "age" >= 21 "city" == "rome";`)
	where, ok := cmd.Args["where"].(*Where)
	require.True(t, ok)
	require.Len(t, where.And, 2)

	assert.Equal(t, "age", where.And[0].Field.Path)
	assert.Equal(t, OpGreaterThanEquals, where.And[0].Op)
	assert.Equal(t, float64(21), where.And[0].Value)

	assert.Equal(t, OpEqual, where.And[1].Op)
	assert.Equal(t, "rome", where.And[1].Value)
}

func TestParse_SelectWhereOr(t *testing.T) {
	// "a or b c" groups as (a || b) && c
	cmd := parseOne(t, `@docs.select "name" in /users where "age" == 21 or "age" == 22 "active" == true;`)
	where := cmd.Args["where"].(*Where)
	assert.Len(t, where.Or, 2)
	require.Len(t, where.And, 1)
	assert.Equal(t, "active", where.And[0].Field.Path)
}

func TestParse_SelectWhereMembership(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where "city" in ["rome", "milan"] "tier" nin [1, 2];`)
	where := cmd.Args["where"].(*Where)
	require.Len(t, where.And, 2)
	assert.Equal(t, OpIn, where.And[0].Op)
	assert.Equal(t, []any{"rome", "milan"}, where.And[0].Value)
	assert.Equal(t, OpNotIn, where.And[1].Op)
	assert.Equal(t, []any{float64(1), float64(2)}, where.And[1].Value)
}

func TestParse_SelectWhereFunctions(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where typeof("age") == "number" exists("email") == true regex("name", "i") == "^al";`)
	where := cmd.Args["where"].(*Where)
	require.Len(t, where.And, 3)

	assert.Equal(t, OpTypeof, where.And[0].Op)
	assert.Equal(t, "number", where.And[0].Value)
	assert.False(t, where.And[0].Negate)

	assert.Equal(t, OpExists, where.And[1].Op)
	assert.Equal(t, true, where.And[1].Value)

	assert.Equal(t, OpRegex, where.And[2].Op)
	require.NotNil(t, where.And[2].Pattern)
	assert.True(t, where.And[2].Pattern.MatchString("Alice"))
}

func TestParse_SelectWhereTypeofNegated(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where typeof("age") != "string";`)
	where := cmd.Args["where"].(*Where)
	require.Len(t, where.And, 1)
	assert.True(t, where.And[0].Negate)
}

func TestParse_SelectWhereExistsNegated(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where exists("email") != true;`)
	where := cmd.Args["where"].(*Where)
	assert.Equal(t, false, where.And[0].Value)
}

func TestParse_SelectWhereMetaFields(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where file_size > 1024 file_ispublic == true;`)
	where := cmd.Args["where"].(*Where)
	require.Len(t, where.And, 2)
	assert.Equal(t, MetaSize, where.And[0].Field.Meta)
	assert.Equal(t, MetaIsPublic, where.And[1].Field.Meta)
}

func TestParse_SelectModifiers(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users distinct "city" sort desc "age" limit 10;`)
	assert.Equal(t, "city", cmd.Args["distinct"])
	assert.Equal(t, int64(10), cmd.Args["limit"])
	sort, ok := cmd.Args["sort"].([]SortKey)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "age", sort[0].Field)
	assert.True(t, sort[0].Descending)
}

func TestParse_SelectCount(t *testing.T) {
	cmd := parseOne(t, `@docs.select "name" in /users where "age" > 18 count;`)
	assert.Equal(t, true, cmd.Args["count"])
}

func TestParse_Set(t *testing.T) {
	cmd := parseOne(t, `@docs.set "city" = "rome" "age" += 1 "score" -= 2 in /users where "name" == "alice";`)
	assert.Equal(t, "database.set", cmd.Name)

	fields, ok := cmd.Args["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rome", fields["city"])

	incr, ok := cmd.Args["incr"].(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, float64(1), incr["age"])
	assert.Equal(t, float64(-2), incr["score"])

	require.NotNil(t, cmd.Args["where"])
}

func TestParse_SetRequiresAssignments(t *testing.T) {
	parseErr(t, `@docs.set in /users;`)
}

func TestParse_Unset(t *testing.T) {
	cmd := parseOne(t, `@docs.unset "draft" "legacy" in /users;`)
	assert.Equal(t, "database.unset", cmd.Name)
	assert.Equal(t, []string{"draft", "legacy"}, cmd.Args["fields"])
	assert.Equal(t, []string{"/users"}, cmd.Args["dirs"])
}

// ============================================================================
// Script structure
// ============================================================================

func TestParse_MultiCommandScript(t *testing.T) {
	cmds, err := NewParser().Parse(`
		server.newdb "docs";
		@docs.newdir /users;
		@docs.newfile /users/alice {"age": 30};
	`)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "server.newdb", cmds[0].Name)
	assert.Equal(t, "database.newdir", cmds[1].Name)
	assert.Equal(t, "database.newfile", cmds[2].Name)
}

func TestParse_Comments(t *testing.T) {
	cmds, err := NewParser().Parse(`
		/* create the database */
		server.newdb "docs";
		/* multi
		   line */
		@docs.newdir /users;
	`)
	require.NoError(t, err)
	assert.Len(t, cmds, 2)
}

func TestParse_ResultFilter(t *testing.T) {
	cmd := parseOne(t, `@docs.listdir / >> pretty;`)
	assert.Equal(t, "pretty", cmd.Filter)

	cmd = parseOne(t, `@docs.select "name" in /users >> pretty;`)
	assert.Equal(t, "pretty", cmd.Filter)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown prefix", `cluster.listdb;`},
		{"unknown server command", `server.reboot;`},
		{"unknown database command", `@docs.truncate /a;`},
		{"missing in clause", `@docs.select "name" /users;`},
		{"no directories", `@docs.select "name" in;`},
		{"bad regex flag", `@docs.select "n" in /a where regex("n", "x") == "p";`},
		{"bad regex pattern", `@docs.select "n" in /a where regex("n", "") == "(";`},
		{"negative limit", `@docs.select "n" in /a limit -1;`},
		{"trailing comma", `@docs.readfile /a ["x",];`},
		{"unterminated string", `server.newdb "docs;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseErr(t, tt.script)
		})
	}
}

func TestParse_ErrorReportsLine(t *testing.T) {
	err := parseErr(t, "server.listdb;\nserver.reboot;")
	assert.Contains(t, err.Error(), "2")
}
