// Package notify reconciles the locally cached notification feed and unread
// counter against the server. The server is the sole source of truth for the
// unread counter; mark-all-read is applied optimistically.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
	"github.com/confessio/confessio/internal/logging"
)

// API is the subset of the remote client the synchronizer needs.
type API interface {
	UnreadCount(ctx context.Context) (int, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkAllRead(ctx context.Context) error
}

// Session tells the synchronizer whether results may still be committed.
type Session interface {
	IsAuthenticated() bool
	Epoch() uint64
	Logout(ctx context.Context)
}

// Synchronizer owns the notification sequence and the unread counter.
// isLoading acts as a non-blocking mutex: a fetch issued while one is
// outstanding is ignored rather than queued.
type Synchronizer struct {
	mu            sync.Mutex
	notifications []models.Notification
	unread        int
	loading       bool

	api     API
	session Session
	log     logging.Logger
}

func New(api API, session Session, log logging.Logger) *Synchronizer {
	return &Synchronizer{api: api, session: session, log: log}
}

// Notifications returns a copy of the cached feed.
func (s *Synchronizer) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the cached unread counter.
func (s *Synchronizer) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// HasNewMessages reports whether the unread counter is positive.
func (s *Synchronizer) HasNewMessages() bool {
	return s.UnreadCount() > 0
}

// IsLoading reports whether a feed fetch is in flight.
func (s *Synchronizer) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops all cached state. Wired into the session's logout cascade.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	s.unread = 0
}

// FetchUnreadCount replaces the local counter with the server's value.
// No-op when unauthenticated. Background operation: failures are logged and
// swallowed, except a session rejection which cascades into a logout.
func (s *Synchronizer) FetchUnreadCount(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}
	epoch := s.session.Epoch()

	n, err := s.api.UnreadCount(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			s.session.Logout(ctx)
			return nil
		}
		s.log.Warn(ctx, "unread count fetch failed", "error", err)
		return nil
	}
	if n < 0 {
		n = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return nil
	}
	s.unread = n
	return nil
}

// FetchNotifications replaces the cached feed with the server's payload,
// then refreshes the unread counter so it matches the freshest list. A call
// made while another is outstanding is ignored. No-op when unauthenticated.
func (s *Synchronizer) FetchNotifications(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	epoch := s.session.Epoch()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	list, err := s.api.Notifications(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			s.session.Logout(ctx)
			return nil
		}
		s.log.Warn(ctx, "notification fetch failed", "error", err)
		return nil
	}

	s.mu.Lock()
	if s.session.Epoch() != epoch {
		s.mu.Unlock()
		return nil
	}
	s.notifications = list
	s.mu.Unlock()

	return s.FetchUnreadCount(ctx)
}

// MarkAllAsRead asks the server to mark everything read, then applies the
// change optimistically: counter zeroed, every cached entry flipped to read.
// There is no rollback; if the request failed, local and server state can
// diverge until the next FetchNotifications. No-op when unauthenticated or
// when nothing is unread.
func (s *Synchronizer) MarkAllAsRead(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	s.mu.Lock()
	if s.unread == 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	epoch := s.session.Epoch()

	if err := s.api.MarkAllRead(ctx); err != nil {
		// known eventual-consistency gap: the next fetch re-syncs
		s.log.Warn(ctx, "mark-all-read failed, local state may diverge until next fetch", "error", err)
		return fmt.Errorf("mark all read: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return nil
	}
	s.unread = 0
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	return nil
}
