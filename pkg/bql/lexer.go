package bql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// stateFn represents the state of the scanner as a function that returns
// the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner.
type lexer struct {
	input string    // the string being scanned
	state stateFn   // the next lexing function to enter
	pos   int       // current position in the input
	start int       // start position of this item
	width int       // width of last rune read from input
	items chan item // channel of scanned items
}

// lex creates a new scanner for the input string.
func lex(input string) *lexer {
	return &lexer{
		input: input,
		state: lexScript,
		items: make(chan item, 2), // two items of buffering is sufficient for all state functions
	}
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// emit passes an item back to the client.
func (l *lexer) emit(t itemType) {
	l.items <- item{t, l.input[l.start:l.pos], l.lineNumber()}
	l.start = l.pos
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// lineNumber reports which line we're on. Doing it this way means we don't
// have to worry about peek double counting.
func (l *lexer) lineNumber() int {
	return 1 + strings.Count(l.input[:l.pos], "\n")
}

// errorf returns an error token and terminates the scan by passing back a
// nil pointer that will be the next state, terminating nextItem.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.items <- item{itemError, fmt.Sprintf(format, args...), l.lineNumber()}
	return nil
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	for {
		select {
		case item := <-l.items:
			return item
		default:
			l.state = l.state(l)
		}
	}
}

// ============================================================================
// State Functions
// ============================================================================

const (
	leftComment  = "/*"
	rightComment = "*/"
)

// lexComment scans a comment. The left comment marker is known to be present.
func lexComment(l *lexer) stateFn {
	l.pos += len(leftComment) - 1
	i := strings.Index(l.input[l.pos:], rightComment)
	if i < 0 {
		return l.errorf("unclosed comment")
	}
	l.pos += i + len(rightComment)
	l.ignore()
	return lexScript
}

// lexDatabase scans a database selector. The '@' is known to be consumed.
func lexDatabase(l *lexer) stateFn {
	letters := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits := "0123456789"
	if !l.accept(letters) {
		return l.errorf("database name must start with a letter")
	}
	l.acceptRun(letters + digits + "_")
	l.emit(itemDatabase)
	return lexScript
}

func lexScript(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		break
	case isSpace(r):
		l.ignore()
		return lexScript
	case r == '@':
		// drop the '@' and lex the database name
		l.ignore()
		return lexDatabase
	case r == '/':
		if l.peek() == '*' {
			return lexComment
		}
		l.backup()
		return lexPath
	case r == '<':
		if l.next() == '=' {
			l.emit(itemLesserThanEquals)
			return lexScript
		}
		l.backup()
		l.emit(itemLesserThan)
		return lexScript
	case r == '>':
		switch l.next() {
		case '=':
			l.emit(itemGreaterThanEquals)
		case '>':
			l.emit(itemSendTo)
		default:
			l.backup()
			l.emit(itemGreaterThan)
		}
		return lexScript
	case r == '!':
		if l.next() == '=' {
			l.emit(itemNotEqualTo)
			return lexScript
		}
		return l.errorf("expected !=")
	case r == '=':
		if l.peek() == '=' {
			l.next()
			l.emit(itemEqualTo)
			return lexScript
		}
		l.emit(itemEqual)
		return lexScript
	case r == ';':
		l.emit(itemSemiColon)
		return lexScript
	case r == '.':
		l.emit(itemDot)
		return lexScript
	case r == ':':
		l.emit(itemColon)
		return lexScript
	case r == ',':
		l.emit(itemComma)
		return lexScript
	case r == '(':
		l.emit(itemLeftParenthesis)
		return lexScript
	case r == '[':
		l.emit(itemLeftBracket)
		return lexScript
	case r == '{':
		l.emit(itemLeftBrace)
		return lexScript
	case r == ')':
		l.emit(itemRightParenthesis)
		return lexScript
	case r == ']':
		l.emit(itemRightBracket)
		return lexScript
	case r == '}':
		l.emit(itemRightBrace)
		return lexScript
	case r == '"':
		return lexDoubleQuote
	case r == '\'':
		return lexSingleQuote
	case r == '+':
		if l.peek() == '=' {
			l.next()
			l.emit(itemPlusEqual)
			return lexScript
		}
		l.backup()
		return lexNumber
	case r == '-':
		switch l.peek() {
		case '=':
			l.next()
			l.emit(itemMinusEqual)
			return lexScript
		case '-':
			l.next()
			l.emit(itemArgument)
			return lexScript
		}
		l.backup()
		return lexNumber
	case '0' <= r && r <= '9':
		l.backup()
		return lexNumber
	case isAlphaNumeric(r):
		l.backup()
		return lexIdentifier
	default:
		return l.errorf("unrecognized character in script: %#U", r)
	}

	// Correctly reached EOF.
	l.emit(itemEOF)
	return nil
}

// lexIdentifier scans an alphanumeric word.
func lexIdentifier(l *lexer) stateFn {
	for isAlphaNumeric(l.next()) {
	}
	l.backup()

	switch strings.ToLower(l.input[l.start:l.pos]) {
	case "null":
		l.emit(itemNull)
	case "true", "false":
		l.emit(itemBool)
	default:
		l.emit(itemIdentifier)
	}
	return lexScript
}

// lexDoubleQuote scans a double quoted string.
func lexDoubleQuote(l *lexer) stateFn {
Loop:
	for {
		switch l.next() {
		case '\\':
			if r := l.next(); r != eof && r != '\n' {
				break
			}
			fallthrough
		case eof, '\n':
			return l.errorf("unterminated quoted string")
		case '"':
			break Loop
		}
	}
	l.emit(itemString)
	return lexScript
}

// lexSingleQuote scans a single quoted string.
func lexSingleQuote(l *lexer) stateFn {
Loop:
	for {
		switch l.next() {
		case '\\':
			if r := l.next(); r != eof && r != '\n' {
				break
			}
			fallthrough
		case eof, '\n':
			return l.errorf("unterminated quoted string")
		case '\'':
			break Loop
		}
	}
	l.emit(itemString)
	return lexScript
}

// lexNumber scans a number: decimal, octal, hex or float. This isn't a
// perfect number scanner - for instance it accepts "." and "0x0.2" - but
// when it's wrong the input is invalid and the parser (via strconv) will
// notice.
func lexNumber(l *lexer) stateFn {
	if !l.scanNumber() {
		return l.errorf("bad number syntax: %q", l.input[l.start:l.pos])
	}
	l.emit(itemNumber)
	return lexScript
}

func (l *lexer) scanNumber() bool {
	// Optional leading sign.
	l.accept("+-")
	digits := "0123456789"
	if l.accept("0") && l.accept("xX") {
		digits = "0123456789abcdefABCDEF"
	}
	l.acceptRun(digits)
	if l.accept(".") {
		l.acceptRun(digits)
	}
	if l.accept("eE") {
		l.accept("+-")
		l.acceptRun("0123456789")
	}
	// Next thing mustn't be alphanumeric.
	if isAlphaNumeric(l.peek()) {
		l.next()
		return false
	}
	return true
}

// lexPath scans a unix style content path starting at '/'.
func lexPath(l *lexer) stateFn {
	for {
		r := l.next()
		if isPathRune(r) || r == '/' {
			continue
		}
		l.backup()
		break
	}
	l.emit(itemPath)
	return lexScript
}

// isSpace reports whether r is a space character.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// isAlphaNumeric reports whether r is an alphabetic, digit, or underscore.
func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isPathRune reports whether r may appear in a path segment.
func isPathRune(r rune) bool {
	return r == '_' || r == '.' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
