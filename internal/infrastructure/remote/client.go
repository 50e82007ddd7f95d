// Package remote implements the chapter API client. It owns the response
// envelope, the error taxonomy, and request authorization; it performs no
// retries and no caching - staleness gating lives with the sync coordinator.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"

	"github.com/ChapterDesk/chapterdesk-go/internal/infrastructure/observability/logging"
)

// Envelope is the wire shape every endpoint responds with.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the server-supplied error payload.
type ErrorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// APIError is the failure taxonomy: connectivity (code 500,
// generic message), unauthorized (code 401, surfaced distinctly), and domain
// errors (server message verbatim).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chapter api: %s (code %d)", e.Message, e.Code)
}

// IsUnauthorized reports whether err is an authorization failure, which the
// caller is expected to turn into a sign-out prompt, never a silent retry.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

const connectivityMessage = "There was an issue connecting to the server"

// Client talks to the chapter API.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	logger         *logging.ChanneledLogger
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithUnauthorizedHook installs a callback invoked once per unauthorized
// response, for the upstream sign-out prompt.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// WithHTTPClient replaces the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a chapter API client.
func NewClient(baseURL, token string, timeout time.Duration, logger *logging.ChanneledLogger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tokenExpired inspects the bearer token's exp claim without verifying the
// signature; verification is the server's job, this only avoids burning a
// round trip on a token we already know is dead.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(now)
}

// do issues one authorized request and decodes the envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if tokenExpired(c.token, time.Now().UTC()) {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &APIError{Code: http.StatusUnauthorized, Message: "session expired"}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := ulid.Make().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Remote().Warn("Request failed", "method", method, "path", path, "requestId", requestID, "error", err.Error())
		}
		return &APIError{Code: http.StatusInternalServerError, Message: connectivityMessage}
	}
	defer resp.Body.Close()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &APIError{Code: http.StatusInternalServerError, Message: connectivityMessage}
	}

	if c.logger != nil {
		c.logger.Remote().Debug("Request completed",
			"method", method, "path", path, "requestId", requestID,
			"status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		message := "unauthorized"
		if envelope.Error != nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
		return &APIError{Code: http.StatusUnauthorized, Message: message}
	}

	if !envelope.Success || resp.StatusCode >= http.StatusBadRequest {
		if envelope.Error != nil {
			code := envelope.Error.Code
			if code == 0 {
				code = resp.StatusCode
			}
			return &APIError{Code: code, Message: envelope.Error.Message}
		}
		return &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
