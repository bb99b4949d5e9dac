// Package session orchestrates login, registration, logout and profile
// retrieval on top of the token vault and the API client. It owns the cached
// profile and the session state machine.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/confessio/confessio/internal/client/api"
	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
	"github.com/confessio/confessio/internal/logging"
)

// State of the session machine.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateLoggingOut     State = "logging_out"
)

// TokenVault is the subset of the vault the controller needs.
type TokenVault interface {
	Set(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
	IsAuthenticated() bool
}

// Controller owns session state. All transitions happen under mu; network
// calls are issued outside the lock with the epoch captured beforehand, and
// results are only committed when the epoch is unchanged — a logout bumps the
// epoch, so late responses against a dead session are discarded.
type Controller struct {
	mu      sync.Mutex
	state   State
	epoch   uint64
	profile *models.Profile

	api      api.Client
	vault    TokenVault
	log      logging.Logger
	onLogout []func()
}

// NewController builds a Controller. A vault hydrated with a persisted token
// resumes directly in the authenticated state.
func NewController(apiClient api.Client, vault TokenVault, log logging.Logger) *Controller {
	state := StateAnonymous
	if vault.IsAuthenticated() {
		state = StateAuthenticated
	}
	return &Controller{state: state, api: apiClient, vault: vault, log: log}
}

// OnLogout registers a reset hook invoked by the logout cascade. Hooks run
// outside the controller lock.
func (c *Controller) OnLogout(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLogout = append(c.onLogout, fn)
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Epoch returns the current session generation. It changes on every logout.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// IsAuthenticated reports whether an authenticated session is active.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAuthenticated && c.vault.IsAuthenticated()
}

// Profile returns a copy of the cached profile, or nil.
func (c *Controller) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

// Login authenticates against the server. A second Login while one is in
// flight fails fast with common.ErrOperationInProgress instead of racing
// token writes. Success requires business code 200 and a non-empty access
// token; the profile is then fetched eagerly (its failure cascades into a
// logout but does not fail the login call itself).
func (c *Controller) Login(ctx context.Context, username, password string) error {
	c.mu.Lock()
	if c.state == StateAuthenticating {
		c.mu.Unlock()
		return common.ErrOperationInProgress
	}
	prev := c.state
	c.state = StateAuthenticating
	epoch := c.epoch
	c.mu.Unlock()

	pair, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.restoreState(epoch, prev)
		var se *api.StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: %s", common.ErrAuthFailed, se.Msg)
		}
		return fmt.Errorf("login: %w", err)
	}
	if pair.Access == "" {
		c.restoreState(epoch, prev)
		return fmt.Errorf("%w: no access token in response", common.ErrAuthFailed)
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// a logout intervened while the response was in flight
		c.mu.Unlock()
		return common.ErrUnauthenticated
	}
	if err := c.vault.Set(ctx, pair.Access, pair.Refresh); err != nil {
		c.log.Warn(ctx, "token persistence failed, session kept in memory", "error", err)
	}
	c.profile = nil
	c.state = StateAuthenticated
	c.mu.Unlock()

	if err := c.FetchProfile(ctx); err != nil {
		c.log.Warn(ctx, "eager profile fetch failed", "error", err)
	}
	return nil
}

// Register creates an account. Deliberately stateless with respect to the
// session: no token is stored, the user logs in separately afterwards.
func (c *Controller) Register(ctx context.Context, info models.RegisterInfo) error {
	if err := c.api.Register(ctx, info); err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: %s", common.ErrAuthFailed, se.Msg)
		}
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// FetchProfile retrieves /users/me at most once per session. Any failure is
// treated as definitive evidence of a stale token and triggers the logout
// cascade.
func (c *Controller) FetchProfile(ctx context.Context) error {
	c.mu.Lock()
	if !c.vault.IsAuthenticated() || c.profile != nil {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	p, err := c.api.Profile(ctx)
	if err != nil {
		c.log.Warn(ctx, "profile fetch failed, invalidating session", "error", err)
		c.logoutIfCurrent(ctx, epoch)
		return fmt.Errorf("%w: %v", common.ErrSessionExpired, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}
	c.profile = p
	return nil
}

// UpdateProfile sends a partial patch and replaces the cached profile with
// the server's authoritative copy — never a client-side merge. No-op when
// unauthenticated, when no profile is cached, or when the patch is empty.
// Failures are returned to the caller for display; a session rejection also
// cascades into a logout.
func (c *Controller) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) error {
	c.mu.Lock()
	if !c.vault.IsAuthenticated() || c.profile == nil {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	if patch.IsEmpty() {
		return nil
	}

	p, err := c.api.UpdateProfile(ctx, patch)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			c.logoutIfCurrent(ctx, epoch)
		}
		return fmt.Errorf("update profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}
	c.profile = p
	return nil
}

// Logout cascades: tokens cleared, profile dropped, registered reset hooks
// invoked, epoch bumped. Always succeeds; no network dependency.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.state = StateLoggingOut
	if err := c.vault.Clear(ctx); err != nil {
		c.log.Warn(ctx, "failed to clear persisted tokens", "error", err)
	}
	c.profile = nil
	c.epoch++
	c.state = StateAnonymous
	hooks := slices.Clone(c.onLogout)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	c.log.Info(ctx, "logged out")
}

// restoreState puts the machine back into prev unless a logout already moved
// the epoch forward.
func (c *Controller) restoreState(epoch uint64, prev State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.state = prev
	}
}

// logoutIfCurrent runs the cascade only when no logout happened since epoch
// was captured.
func (c *Controller) logoutIfCurrent(ctx context.Context, epoch uint64) {
	c.mu.Lock()
	current := c.epoch == epoch
	c.mu.Unlock()
	if current {
		c.Logout(ctx)
	}
}
