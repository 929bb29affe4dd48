// Package memory provides the built-in in-process Authenticator. Accounts
// live in a mutex-guarded map with bcrypt password hashes; state is lost on
// restart.
package memory

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/marmos91/bytengine/pkg/auth"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

type account struct {
	user auth.User
	hash []byte
}

// Authenticator implements auth.Authenticator in process memory.
type Authenticator struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewAuthenticator creates an empty account store.
func NewAuthenticator() *Authenticator {
	return &Authenticator{accounts: make(map[string]*account)}
}

func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	acct, ok := a.accounts[username]
	if !ok || !acct.user.Active {
		return nil, cerrors.NewPermissionDeniedError("authentication failed")
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return nil, cerrors.NewPermissionDeniedError("authentication failed")
	}
	u := acct.user
	u.Databases = append([]string(nil), acct.user.Databases...)
	return &u, nil
}

func (a *Authenticator) NewUser(ctx context.Context, username, password string, root bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := auth.CheckUsername(username); err != nil {
		return cerrors.New(cerrors.ErrInvalidName, err.Error())
	}
	if err := auth.CheckPassword(password); err != nil {
		return cerrors.New(cerrors.ErrIllegalOperation, err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), auth.PasswordCost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.accounts[username]; ok {
		return cerrors.NewAlreadyExistsError(username)
	}
	a.accounts[username] = &account{
		user: auth.User{Username: username, Active: true, Root: root},
		hash: hash,
	}
	return nil
}

func (a *Authenticator) ListUsers(ctx context.Context, filter string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if filter != "" {
		var err error
		re, err = regexp.Compile("(?i)" + filter)
		if err != nil {
			return nil, cerrors.NewQuerySyntaxError(0, "invalid user filter regex: "+err.Error())
		}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	names := []string{}
	for name := range a.accounts {
		if re != nil && !re.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (a *Authenticator) UserInfo(ctx context.Context, username string) (*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	acct, ok := a.accounts[username]
	if !ok {
		return nil, cerrors.NewPathNotFoundError(username)
	}
	u := acct.user
	u.Databases = append([]string(nil), acct.user.Databases...)
	return &u, nil
}

func (a *Authenticator) RemoveUser(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.accounts[username]; !ok {
		return cerrors.NewPathNotFoundError(username)
	}
	delete(a.accounts, username)
	return nil
}

func (a *Authenticator) ChangePassword(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := auth.CheckPassword(password); err != nil {
		return cerrors.New(cerrors.ErrIllegalOperation, err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), auth.PasswordCost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[username]
	if !ok {
		return cerrors.NewPathNotFoundError(username)
	}
	acct.hash = hash
	return nil
}

func (a *Authenticator) SetActive(ctx context.Context, username string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[username]
	if !ok {
		return cerrors.NewPathNotFoundError(username)
	}
	acct.user.Active = active
	return nil
}

func (a *Authenticator) SetDatabaseAccess(ctx context.Context, username, db string, grant bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[username]
	if !ok {
		return cerrors.NewPathNotFoundError(username)
	}

	dbs := acct.user.Databases[:0]
	for _, d := range acct.user.Databases {
		if d != db {
			dbs = append(dbs, d)
		}
	}
	if grant {
		dbs = append(dbs, db)
		sort.Strings(dbs)
	}
	acct.user.Databases = dbs
	return nil
}
