package bql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// Parser scans a script for commands. A zero-allocation two-token lookahead
// drives a recursive descent over the lexer's item stream; syntax errors
// carry the line they were detected on.
type Parser struct {
	commands []Command

	// Parsing only; cleared after parse.
	lex       *lexer
	token     [2]item // two-token lookahead
	peekCount int
}

// NewParser creates a parser. A Parser is reusable but not safe for
// concurrent use.
func NewParser() *Parser {
	return &Parser{}
}

// Parse scans the script and returns its commands in order.
func (p *Parser) Parse(script string) (cmds []Command, err error) {
	defer p.recover(&err)
	p.startParse(lex(script))
	p.parse()
	p.stopParse()
	return p.commands, nil
}

// next returns the next token.
func (p *Parser) next() item {
	if p.peekCount > 0 {
		p.peekCount--
	} else {
		p.token[0] = p.lex.nextItem()
	}
	return p.token[p.peekCount]
}

// backup backs the input stream up one token.
func (p *Parser) backup() {
	p.peekCount++
}

// backup2 backs the input stream up two tokens.
func (p *Parser) backup2(t1 item) {
	p.token[1] = t1
	p.peekCount = 2
}

// peek returns but does not consume the next token.
func (p *Parser) peek() item {
	if p.peekCount > 0 {
		return p.token[p.peekCount-1]
	}
	p.peekCount = 1
	p.token[0] = p.lex.nextItem()
	return p.token[0]
}

// errorf formats the error and terminates processing.
func (p *Parser) errorf(format string, args ...any) {
	p.commands = nil
	panic(cerrors.NewQuerySyntaxError(p.lex.lineNumber(), fmt.Sprintf(format, args...)))
}

// expect consumes the next token and guarantees it has the required type.
func (p *Parser) expect(expected itemType, context string) item {
	token := p.next()
	if token.typ != expected {
		p.errorf("expected %s in %s; got %s", expected, context, token)
	}
	return token
}

// expectOneOf consumes the next token and guarantees it has one of the
// required types.
func (p *Parser) expectOneOf(expected1, expected2 itemType, context string) item {
	token := p.next()
	if token.typ != expected1 && token.typ != expected2 {
		p.errorf("expected %s or %s in %s; got %s", expected1, expected2, context, token)
	}
	return token
}

// recover turns parse panics into error returns from Parse.
func (p *Parser) recover(errp *error) {
	if e := recover(); e != nil {
		parseErr, ok := e.(*cerrors.Error)
		if !ok {
			panic(e)
		}
		p.stopParse()
		*errp = parseErr
	}
}

func (p *Parser) startParse(lex *lexer) {
	p.commands = make([]Command, 0)
	p.lex = lex
}

func (p *Parser) stopParse() {
	p.lex = nil
	p.token = [2]item{}
	p.peekCount = 0
}

func (p *Parser) add(cmd Command) {
	p.commands = append(p.commands, cmd)
}

func newCommand(name, db string, admin bool) Command {
	return Command{
		Name:     name,
		Database: db,
		IsAdmin:  admin,
		Args:     make(map[string]any),
		Options:  make(map[string]any),
	}
}

// ============================================================================
// Top Level
// ============================================================================

// parse runs to EOF. Commands and sub-commands are case insensitive.
func (p *Parser) parse() {
	for p.peek().typ != itemEOF {
		switch next := p.peek(); next.typ {
		case itemError:
			p.errorf("%s", next.val)
		case itemIdentifier:
			prefix := strings.ToLower(next.val)
			switch prefix {
			case "server":
				p.next()
				p.expect(itemDot, prefix)
				key := strings.ToLower(p.expect(itemIdentifier, prefix).val)
				p.parseServerCommand(key, prefix+"."+key)
			case "user":
				p.next()
				p.expect(itemDot, prefix)
				key := strings.ToLower(p.expect(itemIdentifier, prefix).val)
				p.parseUserCommand(key, prefix+"."+key)
			default:
				p.errorf("invalid command prefix %q", prefix)
			}
		case itemDatabase:
			db := p.next().val
			p.expect(itemDot, "database")
			key := strings.ToLower(p.expect(itemIdentifier, "database").val)
			p.parseDatabaseCommand(db, key, "database."+key)
		default:
			p.errorf("unexpected %s at top level", p.peek())
		}
	}
}

// parseServerCommand dispatches server.* commands, resolving aliases.
func (p *Parser) parseServerCommand(key, ctx string) {
	switch key {
	case "listdb", "dbs":
		p.parseListDatabasesCmd("server.listdb")
	case "newdb":
		p.parseNewDatabaseCmd(ctx)
	case "dropdb":
		p.parseDropDatabaseCmd(ctx)
	case "init":
		p.parseServerInitCmd(ctx)
	default:
		p.errorf("unknown server command %q", key)
	}
}

// parseUserCommand dispatches user.* commands, resolving aliases.
func (p *Parser) parseUserCommand(key, ctx string) {
	switch key {
	case "new":
		p.parseNewUserCmd(ctx)
	case "all":
		p.parseListUsersCmd(ctx)
	case "about":
		p.parseUserInfoCmd(ctx)
	case "delete", "rm":
		p.parseDropUserCmd("user.delete")
	case "passw":
		p.parseNewPasswordCmd(ctx)
	case "access":
		p.parseUserSystemAccessCmd(ctx)
	case "db":
		p.parseUserDatabaseAccessCmd(ctx)
	case "whoami":
		p.parseWhoamiCmd(ctx)
	default:
		p.errorf("unknown user command %q", key)
	}
}

// parseDatabaseCommand dispatches @db.* commands, resolving aliases.
func (p *Parser) parseDatabaseCommand(db, key, ctx string) {
	switch key {
	case "newdir", "mkdir":
		p.parsePathOnlyCmd(db, "database.newdir")
	case "newfile", "write":
		p.parseNewFileCmd(db, "database.newfile")
	case "listdir", "ls":
		p.parseListDirectoryCmd(db, "database.listdir")
	case "rename":
		p.parseRenameContentCmd(db, ctx)
	case "move", "mv":
		p.parseMoveOrCopyCmd(db, "database.move")
	case "copy", "cp":
		p.parseMoveOrCopyCmd(db, "database.copy")
	case "delete", "rm":
		p.parsePathOnlyCmd(db, "database.delete")
	case "info":
		p.parsePathOnlyCmd(db, "database.info")
	case "makepublic", "public":
		p.parsePathOnlyCmd(db, "database.makepublic")
	case "makeprivate", "private":
		p.parsePathOnlyCmd(db, "database.makeprivate")
	case "readfile", "read":
		p.parseReadFileCmd(db, "database.readfile")
	case "modfile", "update":
		p.parseModifyFileCmd(db, "database.modfile")
	case "deletebytes":
		p.parsePathOnlyCmd(db, "database.deletebytes")
	case "counter":
		p.parseCounterCmd(db, ctx)
	case "select":
		p.parseSelectCmd(db, ctx)
	case "set":
		p.parseSetCmd(db, ctx)
	case "unset":
		p.parseUnsetCmd(db, ctx)
	default:
		p.errorf("unknown database command %q", key)
	}
}

// ============================================================================
// Shared Pieces
// ============================================================================

// parseFilterResult parses a trailing ">> identifier" result redirection.
func (p *Parser) parseFilterResult() string {
	if p.peek().typ == itemSendTo {
		p.next()
		return p.expect(itemIdentifier, "result redirection").val
	}
	return ""
}

// parseEndOfCommand parses the optional filter and the statement terminator.
func (p *Parser) parseEndOfCommand(ctx string) string {
	filter := p.parseFilterResult()
	if next := p.expectOneOf(itemSemiColon, itemEOF, ctx); next.typ == itemEOF {
		p.backup()
	}
	return filter
}

// parseRegexOption parses an optional "--regex=<pattern>" flag into opts.
func (p *Parser) parseRegexOption(opts map[string]any, ctx string) {
	if p.peek().typ != itemArgument {
		return
	}
	p.next()
	name := p.expect(itemIdentifier, ctx).val
	if name != "regex" {
		p.errorf("invalid option %q in %s", name, ctx)
	}
	p.expect(itemEqual, ctx)
	val := p.unquote(p.expect(itemString, ctx).val, ctx)
	if val == "" {
		p.errorf("empty regex option in %s", ctx)
	}
	opts["regex"] = val
}

// unquote strips and unescapes a quoted string token.
func (p *Parser) unquote(s, ctx string) string {
	out, err := unquote(s)
	if err != nil {
		p.errorf("improperly quoted string in %s", ctx)
	}
	return out
}

// unquote removes surrounding quotes and resolves escapes. Unlike
// strconv.Unquote it allows multi-rune single-quoted strings, which the
// language treats the same as double-quoted ones.
func unquote(s string) (string, error) {
	n := len(s)
	if n < 2 {
		return "", strconv.ErrSyntax
	}
	quote := s[0]
	if quote != s[n-1] {
		return "", strconv.ErrSyntax
	}
	s = s[1 : n-1]

	if quote != '"' && quote != '\'' {
		return "", strconv.ErrSyntax
	}
	if strings.ContainsRune(s, '\n') {
		return "", strconv.ErrSyntax
	}

	// Trivial case: no escapes and no stray quote characters.
	if !strings.ContainsAny(s, "\\"+string(quote)) {
		return s, nil
	}

	var runeTmp [utf8.UTFMax]byte
	buf := make([]byte, 0, 3*len(s)/2)
	for len(s) > 0 {
		c, multibyte, rest, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			return "", err
		}
		s = rest
		if c < utf8.RuneSelf || !multibyte {
			buf = append(buf, byte(c))
		} else {
			n := utf8.EncodeRune(runeTmp[:], c)
			buf = append(buf, runeTmp[:n]...)
		}
	}
	return string(buf), nil
}
