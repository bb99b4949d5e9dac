// Package feed caches the authenticated user's own confessions. Read-only
// convenience view: fetch failures are never fatal, the cache is cleared so
// stale or partial data is never shown.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
	"github.com/confessio/confessio/internal/logging"
)

// API is the subset of the remote client the cache needs.
type API interface {
	MyConfessions(ctx context.Context) (*models.ConfessionPage, error)
}

// Session tells the cache whether results may still be committed.
type Session interface {
	IsAuthenticated() bool
	Epoch() uint64
	Logout(ctx context.Context)
}

// Cache holds the user's own posts behind an isLoading guard.
type Cache struct {
	mu          sync.Mutex
	confessions []models.Confession
	loading     bool

	api     API
	session Session
	log     logging.Logger
}

func New(api API, session Session, log logging.Logger) *Cache {
	return &Cache{api: api, session: session, log: log}
}

// Confessions returns a copy of the cached posts.
func (c *Cache) Confessions() []models.Confession {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Confession, len(c.confessions))
	copy(out, c.confessions)
	return out
}

// IsLoading reports whether a fetch is in flight.
func (c *Cache) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Reset drops the cached posts. Wired into the session's logout cascade.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confessions = nil
}

// FetchMine replaces the cache with the server's payload (empty when the
// payload carries no posts). On any failure the cache is cleared and nothing
// fatal is surfaced; a session rejection additionally cascades into a logout.
// No-op when unauthenticated or while another fetch is outstanding.
func (c *Cache) FetchMine(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return nil
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	epoch := c.session.Epoch()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	page, err := c.api.MyConfessions(ctx)
	if err != nil {
		c.log.Warn(ctx, "my-confessions fetch failed", "error", err)
		c.mu.Lock()
		c.confessions = nil
		c.mu.Unlock()
		if errors.Is(err, common.ErrSessionExpired) {
			c.session.Logout(ctx)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Epoch() != epoch {
		return nil
	}
	c.confessions = page.Posts
	return nil
}
