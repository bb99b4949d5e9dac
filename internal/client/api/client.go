// Package api implements the HTTP client for the confession service.
//
// All business-code handling lives here: every response is a
// {code, msg, data} envelope, and code 200 is the single success convention.
// Non-200 envelopes surface as *StatusError; connectivity failures wrap
// common.ErrTransport; an HTTP 401 on a protected call wraps
// common.ErrSessionExpired. No other package compares status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
)

// TokenPair is the credential pair returned by a successful login.
type TokenPair struct {
	Access  string `json:"access-token"`
	Refresh string `json:"refresh-token"`
}

// TokenSource supplies the current access token for protected calls.
type TokenSource interface {
	Access() string
}

// Client is the remote API surface the session layer consumes.
type Client interface {
	Login(ctx context.Context, username, password string) (TokenPair, error)
	Register(ctx context.Context, info models.RegisterInfo) error
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.Profile, error)
	MyConfessions(ctx context.Context) (*models.ConfessionPage, error)
	UnreadCount(ctx context.Context) (int, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkAllRead(ctx context.Context) error
}

// StatusError is a business-code rejection: the server responded, but the
// envelope carried a non-success code.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server rejected request: code=%d msg=%q", e.Code, e.Msg)
}

const successCode = 200

// envelope is the body shape of every response.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *Metrics
}

// NewHTTPClient constructs an HTTPClient rooted at baseURL (no trailing
// slash). tokens supplies the bearer token for protected calls. metrics may
// be nil.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, metrics *Metrics) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		metrics: metrics,
	}
}

// do performs one API call: marshals body (if any), sends the request,
// decodes the envelope, and unmarshals envelope.data into out (if non-nil).
// protected calls carry the Authorization header.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body any, out any, protected bool) error {
	start := time.Now()
	err := c.doOnce(ctx, method, path, body, out, protected)
	c.metrics.observe(op, err, time.Since(start))
	return err
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, body any, out any, protected bool) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if protected {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Access())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if protected && resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: http status %d", common.ErrSessionExpired, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrTransport, err)
	}

	if env.Code != successCode {
		return &StatusError{Code: env.Code, Msg: env.Msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode payload: %v", common.ErrTransport, err)
		}
	}

	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (TokenPair, error) {
	payload := map[string]string{"username": username, "password": password}

	var pair TokenPair
	if err := c.do(ctx, "login", http.MethodPost, "/users/login", payload, &pair, false); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, info models.RegisterInfo) error {
	return c.do(ctx, "register", http.MethodPost, "/users/register", info, nil, false)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, "profile", http.MethodGet, "/users/me", nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, "update_profile", http.MethodPut, "/users/me", patch, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) MyConfessions(ctx context.Context) (*models.ConfessionPage, error) {
	var page models.ConfessionPage
	if err := c.do(ctx, "my_confessions", http.MethodGet, "/confessions/my", nil, &page, true); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) UnreadCount(ctx context.Context) (int, error) {
	var data struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, "unread_count", http.MethodGet, "/notifications/unread-count", nil, &data, true); err != nil {
		return 0, err
	}
	return data.Count, nil
}

func (c *HTTPClient) Notifications(ctx context.Context) ([]models.Notification, error) {
	var data struct {
		List []models.Notification `json:"list"`
	}
	if err := c.do(ctx, "notifications", http.MethodGet, "/notifications", nil, &data, true); err != nil {
		return nil, err
	}
	return data.List, nil
}

func (c *HTTPClient) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, "mark_all_read", http.MethodPost, "/notifications/mark-as-read", nil, nil, true)
}
