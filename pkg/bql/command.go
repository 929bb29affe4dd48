// Package bql implements the Bytengine query language: a hand-written
// lexer (Rob Pike state-function style) and a recursive descent parser that
// turns scripts into Command values for the engine to dispatch.
//
// A script holds one or more semicolon-separated commands. Server and user
// commands are addressed as "server.xxx" / "user.xxx"; content commands are
// addressed through a database selector: "@mydb.newdir /a/b;".
package bql

import "regexp"

// Command is one parsed script statement, addressed by Name
// (e.g. "database.select", "server.newdb"). Query arguments live in Args
// under well-known keys; --option flags land in Options.
type Command struct {
	Name     string
	Database string
	IsAdmin  bool
	Args     map[string]any
	Options  map[string]any

	// Filter is the data-filter name from a trailing ">> identifier",
	// empty when the command's result is returned unfiltered.
	Filter string
}

// ============================================================================
// Query AST
// ============================================================================

// MetaField names a file metadata pseudo-field usable in where clauses
// alongside document fields.
type MetaField int

const (
	MetaNone     MetaField = iota
	MetaName               // file_name
	MetaMime               // file_mime
	MetaSize               // file_size
	MetaIsPublic           // file_ispublic
)

// FieldRef addresses either a dotted document field or a metadata
// pseudo-field.
type FieldRef struct {
	Meta MetaField
	Path string // dotted content path; empty for metadata fields
}

// CompareOp is a where-clause comparison operator.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanEquals
	OpLesserThan
	OpLesserThanEquals
	OpIn
	OpNotIn
	OpExists
	OpTypeof
	OpRegex
)

// Condition is a single where-clause predicate.
type Condition struct {
	Field FieldRef
	Op    CompareOp

	// Value is the comparison operand: a scalar for ordering operators,
	// []any for in/nin, bool for exists, a type name for typeof.
	Value any

	// Negate inverts the function-style conditions written with "!=",
	// i.e. typeof("f") != "string".
	Negate bool

	// Pattern is the compiled expression for regex conditions. Compiled
	// once at parse time and shared across every document evaluation.
	Pattern *regexp.Regexp
}

// Where is a parsed where clause: the document matches when every And
// condition holds and, if Or is non-empty, at least one Or condition holds.
type Where struct {
	And []Condition
	Or  []Condition
}

// SortKey is one ordering criterion of a select statement.
type SortKey struct {
	Field      string
	Descending bool
}
