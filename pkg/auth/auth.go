// Package auth defines the user account boundary of the engine: who may
// run commands, who is an administrator, and which databases a user can
// touch. The engine consumes the Authenticator interface; the memory
// subpackage ships the built-in bcrypt-backed implementation.
package auth

import (
	"context"
	"errors"
	"regexp"
)

// PasswordCost is the bcrypt work factor used when hashing passwords.
const PasswordCost = 10

var usernamePattern = regexp.MustCompile(`^[a-z]([_]?[a-zA-Z0-9]+)+$`)
var whitespacePattern = regexp.MustCompile(`\s`)

// User is a Bytengine account. Root users bypass per-database access
// checks and may run server.* administration commands.
type User struct {
	Username  string   `json:"username"`
	Active    bool     `json:"active"`
	Root      bool     `json:"root"`
	Databases []string `json:"databases"`
}

// HasDatabase reports whether the user was granted access to db. Root
// users implicitly have access to every database.
func (u *User) HasDatabase(db string) bool {
	if u.Root {
		return true
	}
	for _, d := range u.Databases {
		if d == db {
			return true
		}
	}
	return false
}

// Authenticator manages user accounts and credential checks.
type Authenticator interface {
	// Authenticate verifies a username/password pair and returns the
	// account. Inactive accounts fail authentication.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// NewUser registers an account. Fails if the username is taken or
	// the password violates policy.
	NewUser(ctx context.Context, username, password string, root bool) error

	// ListUsers returns usernames sorted, optionally filtered by a
	// case-insensitive regex.
	ListUsers(ctx context.Context, filter string) ([]string, error)

	// UserInfo returns an account's public record.
	UserInfo(ctx context.Context, username string) (*User, error)

	// RemoveUser deletes an account.
	RemoveUser(ctx context.Context, username string) error

	// ChangePassword replaces an account's password.
	ChangePassword(ctx context.Context, username, password string) error

	// SetActive flips an account's active flag.
	SetActive(ctx context.Context, username string, active bool) error

	// SetDatabaseAccess grants or revokes a user's access to a database.
	SetDatabaseAccess(ctx context.Context, username, db string, grant bool) error
}

// CheckPassword enforces the password policy: no whitespace, at least
// eight characters.
func CheckPassword(pw string) error {
	if whitespacePattern.MatchString(pw) {
		return errors.New("password cannot contain whitespace")
	}
	if len(pw) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// CheckUsername enforces the username policy: lowercase first letter,
// alphanumeric with optional single underscores, and "guest" is reserved.
func CheckUsername(username string) error {
	if username == "guest" {
		return errors.New("username guest is reserved")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("invalid username")
	}
	return nil
}
