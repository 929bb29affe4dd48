package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so log aggregation
// and querying stay uniform across the engine, stores and API surface.
const (
	// ========================================================================
	// Request Tracking
	// ========================================================================
	KeyRequestID = "request_id" // Per-request correlation identifier
	KeySessionID = "session_id" // Authenticated session identifier

	// ========================================================================
	// Command Execution
	// ========================================================================
	KeyCommand  = "command"  // Canonical command name (database.newfile, server.listdb, ...)
	KeyDatabase = "database" // Target database name
	KeyScript   = "script"   // Script length in bytes
	KeyCommands = "commands" // Number of commands in a script
	KeyStatus   = "status"   // Execution status: ok, error
	KeyFilter   = "filter"   // Result filter name (>> target)

	// ========================================================================
	// Content Operations
	// ========================================================================
	KeyPath     = "path"     // Full content path
	KeyNewPath  = "new_path" // Destination path for rename/move/copy
	KeyEntries  = "entries"  // Number of listing entries returned
	KeyMatched  = "matched"  // Number of documents matched or modified
	KeyCounter  = "counter"  // Counter name
	KeyPattern  = "pattern"  // Regex filter pattern
	KeySize     = "size"     // Attachment size in bytes
	KeyMimeType = "mime"     // Attachment MIME type

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP = "client_ip" // Client IP address
	KeyUsername = "username"  // Authenticated username

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Engine error code string

	// ========================================================================
	// Storage Backend
	// ========================================================================
	KeyStoreType = "store_type" // Store type: memory, badger, disk
	KeyStorePath = "store_path" // On-disk store location
	KeyAttempt   = "attempt"    // Retry attempt number
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// RequestID returns a slog.Attr for the request correlation identifier
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// SessionID returns a slog.Attr for the session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// Command returns a slog.Attr for a canonical command name
func Command(name string) slog.Attr {
	return slog.String(KeyCommand, name)
}

// Database returns a slog.Attr for the target database
func Database(name string) slog.Attr {
	return slog.String(KeyDatabase, name)
}

// ScriptSize returns a slog.Attr for a script length in bytes
func ScriptSize(n int) slog.Attr {
	return slog.Int(KeyScript, n)
}

// CommandCount returns a slog.Attr for the number of commands in a script
func CommandCount(n int) slog.Attr {
	return slog.Int(KeyCommands, n)
}

// Status returns a slog.Attr for execution status
func Status(s string) slog.Attr {
	return slog.String(KeyStatus, s)
}

// Filter returns a slog.Attr for a result filter name
func Filter(name string) slog.Attr {
	return slog.String(KeyFilter, name)
}

// Path returns a slog.Attr for a content path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// NewPath returns a slog.Attr for a destination path
func NewPath(p string) slog.Attr {
	return slog.String(KeyNewPath, p)
}

// Entries returns a slog.Attr for the number of listing entries
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}

// Matched returns a slog.Attr for the number of matched documents
func Matched(n int) slog.Attr {
	return slog.Int(KeyMatched, n)
}

// Counter returns a slog.Attr for a counter name
func Counter(name string) slog.Attr {
	return slog.String(KeyCounter, name)
}

// Pattern returns a slog.Attr for a regex filter pattern
func Pattern(p string) slog.Attr {
	return slog.String(KeyPattern, p)
}

// Size returns a slog.Attr for attachment size in bytes
func Size(n int64) slog.Attr {
	return slog.Int64(KeySize, n)
}

// MimeType returns a slog.Attr for an attachment MIME type
func MimeType(m string) slog.Attr {
	return slog.String(KeyMimeType, m)
}

// ClientIP returns a slog.Attr for a client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Username returns a slog.Attr for a username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for an engine error code
func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

// StoreType returns a slog.Attr for store type
func StoreType(t string) slog.Attr {
	return slog.String(KeyStoreType, t)
}

// StorePath returns a slog.Attr for an on-disk store location
func StorePath(p string) slog.Attr {
	return slog.String(KeyStorePath, p)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}
