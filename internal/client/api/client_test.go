package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
)

type staticTokens string

func (s staticTokens) Access() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, staticTokens("AT1"), nil)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, code int, msg string, data any) {
	t.Helper()
	body := map[string]any{"code": code, "msg": msg}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds["username"])
		require.Equal(t, "x", creds["password"])

		writeEnvelope(t, w, 200, "", map[string]string{
			"access-token":  "AT1",
			"refresh-token": "RT1",
		})
	})

	pair, err := c.Login(context.Background(), "alice", "x")
	require.NoError(t, err)
	require.Equal(t, TokenPair{Access: "AT1", Refresh: "RT1"}, pair)
}

func TestLogin_BusinessRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, 403, "wrong password", nil)
	})

	_, err := c.Login(context.Background(), "alice", "bad")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 403, se.Code)
	require.Equal(t, "wrong password", se.Msg)
}

func TestProfile_SendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer AT1", r.Header.Get("Authorization"))
		writeEnvelope(t, w, 200, "", models.Profile{
			UserID:      "u-1",
			Username:    "alice",
			DisplayName: "Alice",
			UserType:    "student",
		})
	})

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u-1", p.UserID)
	require.Equal(t, "Alice", p.DisplayName)
}

func TestProfile_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewHTTPClient(srv.URL, time.Second, staticTokens(""), nil)

	_, err := c.Login(context.Background(), "alice", "x")
	require.ErrorIs(t, err, common.ErrTransport)
}

func TestUnreadCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notifications/unread-count", r.URL.Path)
		writeEnvelope(t, w, 200, "", map[string]int{"count": 5})
	})

	n, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestNotifications(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, 200, "", map[string]any{
			"list": []models.Notification{{
				ID:        "n-1",
				Kind:      models.NotificationLike,
				Actor:     models.Actor{ID: "u-2", Name: "Bob"},
				Related:   models.RelatedContent{Kind: models.RelatedConfession, ID: "42", Snippet: "hello"},
				CreatedAt: created,
				IsRead:    false,
			}},
		})
	})

	list, err := c.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "n-1", list[0].ID)
	require.Equal(t, models.NotificationLike, list[0].Kind)
	require.True(t, created.Equal(list[0].CreatedAt))
}

func TestMarkAllRead(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notifications/mark-as-read", r.URL.Path)
		writeEnvelope(t, w, 200, "", nil)
	})

	require.NoError(t, c.MarkAllRead(context.Background()))
	require.True(t, called)
}

func TestUpdateProfile_OnlySetFieldsTransmitted(t *testing.T) {
	name := "Bob"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		require.Equal(t, "Bob", raw["name"])
		require.NotContains(t, raw, "avatar")

		writeEnvelope(t, w, 200, "", models.Profile{UserID: "u-1", DisplayName: "Bob"})
	})

	p, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, "Bob", p.DisplayName)
}

func TestOutcomeClassification(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{common.ErrSessionExpired, "unauthorized"},
		{&StatusError{Code: 400}, "rejected"},
		{common.ErrTransport, "transport"},
		{errors.New("other"), "error"},
	}
	for _, tc := range tests {
		if got := outcome(tc.err); got != tc.want {
			t.Fatalf("outcome(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
