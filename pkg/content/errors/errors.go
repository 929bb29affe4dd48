// Package errors provides error types and error codes for the content store.
// It is a leaf package with no internal dependencies so that the store
// implementations, the query engine and the command layer can all import it
// without causing circular imports.
package errors

import "fmt"

// ErrorCode identifies the kind of failure a content operation produced.
type ErrorCode int

const (
	// ErrPathNotFound indicates the addressed node does not exist, or an
	// intermediate path segment is missing.
	ErrPathNotFound ErrorCode = iota + 1

	// ErrDatabaseNotFound indicates the named database is not registered.
	ErrDatabaseNotFound

	// ErrAlreadyExists indicates a sibling with the same name already exists.
	ErrAlreadyExists

	// ErrParentNotFound indicates the parent directory of a creation target
	// could not be resolved.
	ErrParentNotFound

	// ErrParentIsFile indicates the parent path resolves to a file.
	ErrParentIsFile

	// ErrNotFile indicates the operation is only valid for files.
	ErrNotFile

	// ErrInvalidName indicates a proposed node, database or counter name
	// failed validation.
	ErrInvalidName

	// ErrInvalidJSON indicates a document body is not a well-formed JSON
	// object.
	ErrInvalidJSON

	// ErrQuerySyntax indicates a BQL statement failed to parse. The message
	// carries the offending line.
	ErrQuerySyntax

	// ErrTypeMismatch indicates an arithmetic assignment targeted a
	// non-numeric field.
	ErrTypeMismatch

	// ErrPermissionDenied indicates the caller is not authorized for the
	// operation. Raised by the engine's auth seam, never by the store.
	ErrPermissionDenied

	// ErrRootImmutable indicates an attempt to rename, move, copy or delete
	// the root directory.
	ErrRootImmutable

	// ErrIllegalOperation indicates a structurally invalid move/copy, such as
	// moving a directory into its own subtree.
	ErrIllegalOperation

	// ErrNoAttachment indicates the file has no attachment bytes.
	ErrNoAttachment

	// ErrNotPublic indicates direct access was attempted on a private node.
	ErrNotPublic

	// ErrInvalidTicket indicates an upload/download ticket failed
	// verification or expired.
	ErrInvalidTicket

	// ErrStoreFailure indicates the underlying storage medium failed.
	// Fatal to the command; reported upward, never retried here.
	ErrStoreFailure
)

// String returns a human-readable name for the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrPathNotFound:
		return "PathNotFound"
	case ErrDatabaseNotFound:
		return "DatabaseNotFound"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrParentNotFound:
		return "ParentNotFound"
	case ErrParentIsFile:
		return "ParentIsFile"
	case ErrNotFile:
		return "NotFile"
	case ErrInvalidName:
		return "InvalidName"
	case ErrInvalidJSON:
		return "InvalidJSON"
	case ErrQuerySyntax:
		return "QuerySyntax"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrRootImmutable:
		return "RootImmutable"
	case ErrIllegalOperation:
		return "IllegalOperation"
	case ErrNoAttachment:
		return "NoAttachment"
	case ErrNotPublic:
		return "NotPublic"
	case ErrInvalidTicket:
		return "InvalidTicket"
	case ErrStoreFailure:
		return "StoreFailure"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// Error represents a content store error with an error code.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match any two *Error values with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the ErrorCode from err, or 0 if err is not an *Error.
func CodeOf(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return 0
}

// ============================================================================
// Factory Functions
// ============================================================================

// NewPathNotFoundError creates a PathNotFound error.
func NewPathNotFoundError(path string) *Error {
	return &Error{
		Code:    ErrPathNotFound,
		Message: "path not found",
		Path:    path,
	}
}

// NewDatabaseNotFoundError creates a DatabaseNotFound error.
func NewDatabaseNotFoundError(db string) *Error {
	return &Error{
		Code:    ErrDatabaseNotFound,
		Message: fmt.Sprintf("database %q doesn't exist", db),
	}
}

// NewAlreadyExistsError creates an AlreadyExists error.
func NewAlreadyExistsError(path string) *Error {
	return &Error{
		Code:    ErrAlreadyExists,
		Message: "already exists",
		Path:    path,
	}
}

// NewParentNotFoundError creates a ParentNotFound error.
func NewParentNotFoundError(path string) *Error {
	return &Error{
		Code:    ErrParentNotFound,
		Message: "destination directory not found",
		Path:    path,
	}
}

// NewParentIsFileError creates a ParentIsFile error.
func NewParentIsFileError(path string) *Error {
	return &Error{
		Code:    ErrParentIsFile,
		Message: "destination isn't a directory",
		Path:    path,
	}
}

// NewNotFileError creates a NotFile error.
func NewNotFileError(path string) *Error {
	return &Error{
		Code:    ErrNotFile,
		Message: "command only valid for files",
		Path:    path,
	}
}

// NewInvalidNameError creates an InvalidName error.
func NewInvalidNameError(name string) *Error {
	return &Error{
		Code:    ErrInvalidName,
		Message: fmt.Sprintf("name %q isn't valid", name),
	}
}

// NewInvalidJSONError creates an InvalidJSON error.
func NewInvalidJSONError(detail string) *Error {
	return &Error{
		Code:    ErrInvalidJSON,
		Message: detail,
	}
}

// NewQuerySyntaxError creates a QuerySyntax error for the given source line.
func NewQuerySyntaxError(line int, detail string) *Error {
	return &Error{
		Code:    ErrQuerySyntax,
		Message: fmt.Sprintf("line[%d]: %s", line, detail),
	}
}

// NewTypeMismatchError creates a TypeMismatch error.
func NewTypeMismatchError(field string) *Error {
	return &Error{
		Code:    ErrTypeMismatch,
		Message: fmt.Sprintf("field %q isn't numeric", field),
	}
}

// NewPermissionDeniedError creates a PermissionDenied error.
func NewPermissionDeniedError(detail string) *Error {
	return &Error{
		Code:    ErrPermissionDenied,
		Message: detail,
	}
}

// NewRootImmutableError creates a RootImmutable error.
func NewRootImmutableError(op string) *Error {
	return &Error{
		Code:    ErrRootImmutable,
		Message: fmt.Sprintf("root directory can't be %s", op),
		Path:    "/",
	}
}

// NewIllegalOperationError creates an IllegalOperation error.
func NewIllegalOperationError(detail string) *Error {
	return &Error{
		Code:    ErrIllegalOperation,
		Message: detail,
	}
}

// NewNoAttachmentError creates a NoAttachment error.
func NewNoAttachmentError(path string) *Error {
	return &Error{
		Code:    ErrNoAttachment,
		Message: "byte layer is empty",
		Path:    path,
	}
}

// NewNotPublicError creates a NotPublic error.
func NewNotPublicError(path string) *Error {
	return &Error{
		Code:    ErrNotPublic,
		Message: "file isn't public",
		Path:    path,
	}
}

// NewInvalidTicketError creates an InvalidTicket error.
func NewInvalidTicketError(detail string) *Error {
	return &Error{
		Code:    ErrInvalidTicket,
		Message: detail,
	}
}

// NewStoreFailureError wraps a storage medium failure.
func NewStoreFailureError(err error) *Error {
	return &Error{
		Code:    ErrStoreFailure,
		Message: err.Error(),
	}
}
