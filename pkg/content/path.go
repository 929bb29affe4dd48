package content

import (
	"path"
	"regexp"
	"strings"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// ============================================================================
// Path Handling
// ============================================================================
//
// Paths are unix-style, '/'-delimited and case-sensitive. Empty segments
// collapse, trailing slashes are normalized, and '.'/'..' are rejected as
// literal name components rather than interpreted as navigation.

// CleanPath normalizes a path: collapses empty segments and trailing slashes
// and guarantees a leading '/'.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// SplitPath returns the normalized path's segment sequence. The root path
// yields an empty slice.
func SplitPath(p string) []string {
	p = CleanPath(p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// JoinPath joins a parent path and a child name.
func JoinPath(parent, name string) string {
	return path.Join(CleanPath(parent), name)
}

// ParentPath returns the normalized parent directory of p ("/" for root).
func ParentPath(p string) string {
	return path.Dir(CleanPath(p))
}

// BaseName returns the last segment of p ("/" for root).
func BaseName(p string) string {
	return path.Base(CleanPath(p))
}

// IsSubtree reports whether sub lies within (or equals) the subtree rooted
// at root. Used for move/copy cycle prevention.
func IsSubtree(root, sub string) bool {
	root = CleanPath(root)
	sub = CleanPath(sub)
	if root == sub {
		return true
	}
	if root == "/" {
		return true
	}
	return strings.HasPrefix(sub, root+"/")
}

// ============================================================================
// Name Validation
// ============================================================================

var (
	dbNameRe      = regexp.MustCompile(`^[a-z][a-z0-9_]{1,20}$`)
	dirNameRe     = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)
	fileNameRe    = regexp.MustCompile(`^\w[\w\-]*(\.[a-zA-Z0-9]+)*$`)
	counterNameRe = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
)

// ValidateDatabaseName checks a proposed database name. Database names are
// lowercase by contract.
func ValidateDatabaseName(name string) error {
	if !dbNameRe.MatchString(name) {
		return cerrors.NewInvalidNameError(name)
	}
	return nil
}

// ValidateDirName checks a proposed directory name. Traversal tokens are
// rejected as names, never interpreted.
func ValidateDirName(name string) error {
	if name == "." || name == ".." || !dirNameRe.MatchString(name) {
		return cerrors.NewInvalidNameError(name)
	}
	return nil
}

// ValidateFileName checks a proposed file name.
func ValidateFileName(name string) error {
	if name == "." || name == ".." || !fileNameRe.MatchString(name) {
		return cerrors.NewInvalidNameError(name)
	}
	return nil
}

// ValidateCounterName checks a dotted counter name.
func ValidateCounterName(name string) error {
	if !counterNameRe.MatchString(name) {
		return cerrors.NewInvalidNameError(name)
	}
	return nil
}
