// Package engine is the command surface of bytengine. It parses BQL scripts,
// authorizes each command against the calling user, dispatches to the
// registered handler, and wraps results in the {status,data} envelope.
package engine

import (
	"context"
	"time"

	"github.com/marmos91/bytengine/internal/logger"
	"github.com/marmos91/bytengine/pkg/auth"
	"github.com/marmos91/bytengine/pkg/bql"
	"github.com/marmos91/bytengine/pkg/content"
	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
	"github.com/marmos91/bytengine/pkg/metrics"
	"github.com/marmos91/bytengine/pkg/query"
)

// CommandHandler executes one parsed command on behalf of a user.
type CommandHandler func(ctx context.Context, cmd bql.Command, user *auth.User, eng *Engine) (any, error)

// DataFilter post-processes a command result named by ">> filter".
type DataFilter func(r any) (any, error)

// DefaultSessionTTL bounds login tokens issued without an explicit duration.
const DefaultSessionTTL = 2 * time.Hour

// Engine wires the content service, query executor, authenticator and
// session store behind the BQL command surface.
type Engine struct {
	content  *content.Service
	exec     *query.Executor
	auth     auth.Authenticator
	sessions *SessionStore
	metrics  *metrics.Metrics

	handlers map[string]CommandHandler
	filters  map[string]DataFilter
}

// NewEngine creates an engine with the core command handlers and the built-in
// data filters registered. metrics may be nil to disable instrumentation.
func NewEngine(svc *content.Service, authn auth.Authenticator, m *metrics.Metrics) *Engine {
	eng := &Engine{
		content:  svc,
		exec:     query.NewExecutor(svc),
		auth:     authn,
		sessions: NewSessionStore(),
		metrics:  m,
		handlers: make(map[string]CommandHandler),
		filters:  make(map[string]DataFilter),
	}
	eng.registerCoreHandlers()
	eng.registerCoreFilters()
	return eng
}

// Content exposes the underlying content service, mainly for the transfer
// endpoints that stream attachment bytes outside the script surface.
func (eng *Engine) Content() *content.Service {
	return eng.content
}

// RegisterHandler adds a command handler. Registering over an existing name
// is rejected so core commands cannot be silently shadowed.
func (eng *Engine) RegisterHandler(name string, fn CommandHandler) error {
	if fn == nil {
		return cerrors.New(cerrors.ErrIllegalOperation, "command handler is nil")
	}
	if _, exists := eng.handlers[name]; exists {
		return cerrors.NewAlreadyExistsError(name)
	}
	eng.handlers[name] = fn
	return nil
}

// RegisterFilter adds a data filter usable as ">> name".
func (eng *Engine) RegisterFilter(name string, fn DataFilter) error {
	if fn == nil {
		return cerrors.New(cerrors.ErrIllegalOperation, "data filter is nil")
	}
	if _, exists := eng.filters[name]; exists {
		return cerrors.NewAlreadyExistsError(name)
	}
	eng.filters[name] = fn
	return nil
}

// ============================================================================
// Sessions
// ============================================================================

// Login authenticates a user and mints a session token valid for ttl.
// A non-positive ttl falls back to DefaultSessionTTL.
func (eng *Engine) Login(ctx context.Context, username, password string, ttl time.Duration) (string, error) {
	user, err := eng.auth.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	token, err := eng.sessions.Create(user.Username, ttl)
	if err != nil {
		return "", err
	}
	logger.InfoCtx(ctx, "user logged in", logger.KeyUsername, user.Username)
	return token, nil
}

// Logout revokes a session token.
func (eng *Engine) Logout(token string) {
	eng.sessions.Revoke(token)
}

// CreateAdminUser creates a root user directly, bypassing the command
// surface. Used at bootstrap before any session exists.
func (eng *Engine) CreateAdminUser(ctx context.Context, username, password string) error {
	return eng.auth.NewUser(ctx, username, password, true)
}

// checkUser resolves a session token to its user account. An empty token is
// the anonymous caller and yields (nil, nil).
func (eng *Engine) checkUser(ctx context.Context, token string) (*auth.User, error) {
	if token == "" {
		return nil, nil
	}
	username, err := eng.sessions.Lookup(token)
	if err != nil {
		return nil, err
	}
	return eng.auth.UserInfo(ctx, username)
}

// ============================================================================
// Execution
// ============================================================================

// ExecuteScript parses and runs a BQL script under the given session token.
// Commands run in order; the first failure aborts the script. A single
// command returns its result directly, a multi-command script returns the
// result list.
func (eng *Engine) ExecuteScript(ctx context.Context, token, script string) (Response, error) {
	user, err := eng.checkUser(ctx, token)
	if err != nil {
		return ErrorResponse(err), err
	}
	if user == nil {
		err := cerrors.NewPermissionDeniedError("authorization required")
		return ErrorResponse(err), err
	}

	cmds, err := eng.parseScript(script)
	if err != nil {
		return ErrorResponse(err), err
	}
	eng.metrics.ObserveScript()

	results := []any{}
	for _, cmd := range cmds {
		r, err := eng.execute(ctx, cmd, user)
		if err != nil {
			return ErrorResponse(err), err
		}
		results = append(results, r)
	}

	if len(results) > 1 {
		return OKResponse(results), nil
	}
	return OKResponse(results[0]), nil
}

// ExecuteCommand runs a single pre-built command under the given session
// token. Unlike ExecuteScript the anonymous caller is allowed through to the
// per-command checks, which is what direct access relies on.
func (eng *Engine) ExecuteCommand(ctx context.Context, token string, cmd bql.Command) (Response, error) {
	user, err := eng.checkUser(ctx, token)
	if err != nil {
		return ErrorResponse(err), err
	}
	r, err := eng.execute(ctx, cmd, user)
	if err != nil {
		return ErrorResponse(err), err
	}
	return OKResponse(r), nil
}

// parseScript parses a script into its command list.
func (eng *Engine) parseScript(script string) ([]bql.Command, error) {
	if len(script) == 0 {
		return nil, cerrors.NewQuerySyntaxError(0, "empty script")
	}
	cmds, err := bql.NewParser().Parse(script)
	if err != nil {
		return nil, err
	}
	if len(cmds) == 0 {
		return nil, cerrors.NewQuerySyntaxError(0, "no command found")
	}
	return cmds, nil
}

// execute authorizes and runs one command, then applies its data filter.
func (eng *Engine) execute(ctx context.Context, cmd bql.Command, user *auth.User) (any, error) {
	start := time.Now()
	val, err := eng.dispatch(ctx, cmd, user)
	eng.metrics.ObserveCommand(cmd.Name, time.Since(start), err)

	if err != nil {
		if code := cerrors.CodeOf(err); code != 0 {
			eng.metrics.ObserveError(code.String())
		}
		logger.ErrorCtx(ctx, "command failed",
			logger.KeyCommand, cmd.Name,
			logger.KeyDatabase, cmd.Database,
			logger.KeyError, err.Error())
		return nil, err
	}

	logger.DebugCtx(ctx, "command executed",
		logger.KeyCommand, cmd.Name,
		logger.KeyDatabase, cmd.Database,
		logger.KeyDurationMs, logger.Duration(start))

	if cmd.Filter != "" {
		df, ok := eng.filters[cmd.Filter]
		if !ok {
			return nil, cerrors.New(cerrors.ErrQuerySyntax, "filter '"+cmd.Filter+"' not found")
		}
		return df(val)
	}
	return val, nil
}

// dispatch runs the authorization checks and invokes the handler.
func (eng *Engine) dispatch(ctx context.Context, cmd bql.Command, user *auth.User) (any, error) {
	fn, ok := eng.handlers[cmd.Name]
	if !ok {
		return nil, cerrors.New(cerrors.ErrQuerySyntax, "command '"+cmd.Name+"' not found")
	}

	denied := cerrors.NewPermissionDeniedError("user not authorized to execute command")
	if user == nil {
		return nil, denied
	}
	if cmd.IsAdmin && !user.Root {
		return nil, denied
	}
	if cmd.Database != "" && !user.HasDatabase(cmd.Database) {
		return nil, denied
	}

	return fn(ctx, cmd, user, eng)
}
