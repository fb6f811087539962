// Package session owns the authentication lifecycle: token acquisition on
// login/signup, hydration of the current user from a stored token at
// startup, logout, and teardown when the server declares the session
// expired. The in-memory token (held by the API client) and the durable
// token (credential store) are kept synchronized on every transition.
package session

import (
	"context"
	"sync"

	"github.com/typematch/typematch/internal/client/api"
	"github.com/typematch/typematch/internal/client/credentials"
	"github.com/typematch/typematch/internal/client/models"
	"github.com/typematch/typematch/internal/logging"
)

// State describes where the controller is in the authentication lifecycle.
type State int

const (
	// StateAnonymous: no token, no user.
	StateAnonymous State = iota
	// StateHydrating: token present, current-user fetch in flight.
	StateHydrating
	// StateAuthenticated: token and user both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Gateway is the slice of the API client the controller needs.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, form *api.Form) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	SetToken(token string)
	ClearToken()
	IsTokenExpired() bool
	OnUnauthorized(fn func())
}

// Controller orchestrates login, signup, logout and session-expiry handling.
// It subscribes itself to the gateway's unauthorized notifications, so any
// 401 anywhere in the application forces it back to StateAnonymous.
type Controller struct {
	api       Gateway
	store     credentials.Store
	log       logging.Logger
	onExpired func()

	mu              sync.Mutex
	state           State
	user            *models.User
	loading         bool
	expiredNotified bool
	// gen invalidates in-flight hydrations: a fetch started before a
	// login/logout/expiry must not commit its result afterwards.
	gen uint64
}

// NewController wires a controller to the gateway and credential store.
// onExpired, if non-nil, is invoked at most once per expiry episode to
// surface a user-facing "session expired" notice.
func NewController(gw Gateway, store credentials.Store, log logging.Logger, onExpired func()) *Controller {
	c := &Controller{
		api:       gw,
		store:     store,
		log:       log,
		onExpired: onExpired,
		state:     StateAnonymous,
	}
	gw.OnUnauthorized(func() {
		c.HandleExpired(context.Background())
	})
	return c
}

// Start performs startup hydration: if a durable token exists and is not
// locally expired, the current user is fetched and the controller ends up
// authenticated. All failures are absorbed into a logged-out state; Start
// never returns an error to the caller.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	token, err := c.store.Get(ctx, credentials.KeyToken)
	if err != nil {
		c.log.Error(ctx, "failed to load stored token", "err", err)
		return
	}
	if token == "" {
		return
	}

	c.api.SetToken(token)
	if c.api.IsTokenExpired() {
		c.HandleExpired(ctx)
		return
	}

	c.hydrate(ctx)
}

// hydrate fetches the current user and commits it, unless the session
// generation moved on while the fetch was in flight. Failures tear the
// session down rather than propagate.
func (c *Controller) hydrate(ctx context.Context) {
	c.mu.Lock()
	c.state = StateHydrating
	gen := c.gen
	c.mu.Unlock()

	user, err := c.api.CurrentUser(ctx)

	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		c.log.Debug(ctx, "discarding stale hydration result")
		return
	}

	if err != nil {
		c.log.Warn(ctx, "user hydration failed", "err", err)
		c.HandleExpired(ctx)
		return
	}

	c.mu.Lock()
	c.user = user
	c.state = StateAuthenticated
	c.mu.Unlock()
}

// Login exchanges credentials for a token, mirrors it to durable storage
// together with the username hint, and hydrates the current user. A server
// rejection propagates unchanged to the caller; a hydration failure after a
// successful token exchange is absorbed into a logged-out state.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	token, err := c.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.adoptToken(ctx, token, username)
	c.hydrate(ctx)
	return nil
}

// Signup registers a new account from the multipart form. When the server
// issues a token, the current user is fetched within the same operation;
// unlike Login, a failure of that fetch propagates to the caller (after the
// half-open session is torn down).
func (c *Controller) Signup(ctx context.Context, form *api.Form) error {
	token, err := c.api.Register(ctx, form)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	c.adoptToken(ctx, token, form.Value("username"))

	c.mu.Lock()
	c.state = StateHydrating
	gen := c.gen
	c.mu.Unlock()

	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		c.clearSession(ctx)
		return err
	}

	c.mu.Lock()
	if gen == c.gen {
		c.user = user
		c.state = StateAuthenticated
	}
	c.mu.Unlock()
	return nil
}

// adoptToken installs a freshly issued token in memory and durable storage,
// advances the generation, and reopens the expiry-notice latch.
func (c *Controller) adoptToken(ctx context.Context, token, username string) {
	c.api.SetToken(token)

	c.mu.Lock()
	c.gen++
	c.expiredNotified = false
	c.mu.Unlock()

	values := map[string]string{credentials.KeyToken: token}
	if username != "" {
		values[credentials.KeyUsername] = username
	}
	if err := c.store.SetMany(ctx, values); err != nil {
		c.log.Error(ctx, "failed to persist credentials", "err", err)
	}
}

// Logout clears the user and token from memory and durable storage and
// resets the expiry-notice latch. It always succeeds; storage errors are
// logged only.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	c.user = nil
	c.state = StateAnonymous
	c.expiredNotified = false
	c.mu.Unlock()

	c.api.ClearToken()
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear stored credentials", "err", err)
	}
}

// HandleExpired tears the session down after a locally detected expiry or a
// server 401, and emits the one-shot "session expired" notice. Repeated
// near-simultaneous expiries collapse into a single notice; the latch
// reopens on logout or on the next successful login.
func (c *Controller) HandleExpired(ctx context.Context) {
	notify := c.clearSession(ctx)
	if notify && c.onExpired != nil {
		c.onExpired()
	}
}

// clearSession drops the user and token (memory and durable) without
// touching the username hint. It reports whether the expiry notice should
// fire, arming the latch as a side effect.
func (c *Controller) clearSession(ctx context.Context) bool {
	c.mu.Lock()
	c.gen++
	c.user = nil
	c.state = StateAnonymous
	notify := !c.expiredNotified
	c.expiredNotified = true
	c.mu.Unlock()

	c.api.ClearToken()
	if err := c.store.Delete(ctx, credentials.KeyToken); err != nil {
		c.log.Error(ctx, "failed to delete stored token", "err", err)
	}
	return notify
}

// CurrentUser returns the authenticated user, or nil.
func (c *Controller) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// UpdateCurrentUser applies mutate to the held user record, if any. Used
// after profile edits and quiz submissions so the cached record tracks the
// server without a refetch.
func (c *Controller) UpdateCurrentUser(mutate func(*models.User)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil {
		mutate(c.user)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether startup hydration is still running.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// UsernameHint returns the last username used to log in, for prefilling the
// login prompt. Not security-sensitive.
func (c *Controller) UsernameHint(ctx context.Context) string {
	hint, err := c.store.Get(ctx, credentials.KeyUsername)
	if err != nil {
		c.log.Debug(ctx, "failed to read username hint", "err", err)
		return ""
	}
	return hint
}
