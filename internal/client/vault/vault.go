// Package vault owns the session's token pair. Tokens live in memory and are
// mirrored into the persistent key-value store so a session survives
// restarts.
package vault

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/confessio/confessio/internal/logging"
)

// Persisted keys. Empty value means absent.
const (
	keyAccessToken  = "access-token"
	keyRefreshToken = "refresh-token"
)

// KV is the subset of the persistent store the vault needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Vault holds the access/refresh token pair. The in-memory copy is
// authoritative; persistence is lenient — a failed write is surfaced but
// never blocks the memory update, the stored pair is reconciled on the next
// successful write.
type Vault struct {
	mu      sync.RWMutex
	access  string
	refresh string

	kv  KV
	log logging.Logger
}

func New(kv KV, log logging.Logger) *Vault {
	return &Vault{kv: kv, log: log}
}

// Hydrate loads persisted tokens at process start. Idempotent and never
// fails: unreadable or absent values become empty strings.
func (v *Vault) Hydrate(ctx context.Context) {
	access, err := v.kv.Get(ctx, keyAccessToken)
	if err != nil {
		v.log.Warn(ctx, "failed to read persisted access token", "error", err)
	}
	refresh, err := v.kv.Get(ctx, keyRefreshToken)
	if err != nil {
		v.log.Warn(ctx, "failed to read persisted refresh token", "error", err)
	}

	v.mu.Lock()
	v.access = string(access)
	v.refresh = string(refresh)
	v.mu.Unlock()
}

// Set stores both tokens in memory and persists them as a pair. Memory is
// updated even when persistence fails; the returned error reports the
// persistence failure.
func (v *Vault) Set(ctx context.Context, access, refresh string) error {
	v.mu.Lock()
	v.access = access
	v.refresh = refresh
	v.mu.Unlock()

	return errors.Join(
		v.kv.Set(ctx, keyAccessToken, []byte(access)),
		v.kv.Set(ctx, keyRefreshToken, []byte(refresh)),
	)
}

// Clear resets both tokens to empty and removes the persisted pair.
func (v *Vault) Clear(ctx context.Context) error {
	v.mu.Lock()
	v.access = ""
	v.refresh = ""
	v.mu.Unlock()

	return errors.Join(
		v.kv.Delete(ctx, keyAccessToken),
		v.kv.Delete(ctx, keyRefreshToken),
	)
}

// Access returns the current access token ("" when absent). Implements
// api.TokenSource.
func (v *Vault) Access() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.access
}

// Refresh returns the current refresh token ("" when absent).
func (v *Vault) Refresh() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refresh
}

// IsAuthenticated reports whether a session is present: true iff the access
// token is non-empty.
func (v *Vault) IsAuthenticated() bool {
	return v.Access() != ""
}

// AccessExpiry decodes the access token without verifying its signature and
// returns the exp claim. ok is false when there is no token, the token is not
// a JWT, or it carries no expiry. Display use only — the server remains the
// authority on token validity.
func (v *Vault) AccessExpiry() (time.Time, bool) {
	raw := v.Access()
	if raw == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
