// Package api implements the single egress point for all TypeMatch server
// calls. The Client owns the session token, attaches auth headers, detects
// local token expiry, and publishes a notification on any 401 response so
// the session layer can tear itself down.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/typematch/typematch/internal/logging"
)

// DefaultBaseURL is where a locally run backend listens.
const DefaultBaseURL = "http://localhost:3001"

// loginEndpoint is excluded from unauthorized notifications: a 401 from the
// login call means bad credentials, not an expired session.
const loginEndpoint = "auth/token"

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu       sync.Mutex
	token    string
	handlers []func()
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport. Useful in tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the held session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the held session token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Token returns the currently held session token, or "".
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// IsTokenExpired reports whether the held token is absent, malformed, or past
// its embedded expiry. Decode failures count as expired.
func (c *Client) IsTokenExpired() bool {
	return tokenExpired(c.Token(), time.Now())
}

func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

// OnUnauthorized subscribes fn to unauthorized notifications. Every 401
// response whose endpoint is not the login endpoint notifies all subscribers
// exactly once per failing call, before the error returns to the caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	handlers := make([]func(), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Request performs one API call and returns the raw response body.
//
// Payload handling: a *Form is sent as multipart untransformed; url.Values
// become query parameters on GET requests; anything else non-nil is
// serialized to JSON for non-GET requests. A held token that is locally
// expired is cleared before the call rather than sent stale.
func (c *Client) Request(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.token != "" && tokenExpired(c.token, time.Now()) {
		c.token = ""
	}
	token := c.token
	c.mu.Unlock()

	var body io.Reader
	contentType := ""
	query := url.Values{}

	switch p := payload.(type) {
	case nil:
	case *Form:
		buf, ct, err := p.encode()
		if err != nil {
			return nil, err
		}
		body = buf
		contentType = ct
	case url.Values:
		if method == http.MethodGet {
			query = p
		} else {
			body = strings.NewReader(p.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	default:
		if method != http.MethodGet {
			b, err := json.Marshal(p)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(b)
			contentType = "application/json"
		}
	}

	reqURL := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	reqID := uuid.NewString()
	c.log.Debug(ctx, "api request", "id", reqID, "method", method, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(ctx, "api request failed", "id", reqID, "err", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: serverErrorMessage(data)}
		c.log.Debug(ctx, "api error response", "id", reqID, "status", resp.StatusCode, "message", apiErr.Message)
		if resp.StatusCode == http.StatusUnauthorized && endpoint != loginEndpoint {
			c.notifyUnauthorized()
		}
		return nil, apiErr
	}

	return data, nil
}

// serverErrorMessage extracts the "error" field from an error body, falling
// back to a generic message when it is missing or not a string.
func serverErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return genericRequestError
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil && msg != "" {
		return msg
	}

	// Some handlers nest the text one level deeper.
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	return genericRequestError
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }
