// Package client talks to the SkillLog HTTP API. It is the remote side of
// the optimistic toggle reconciler used by logctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/streaks"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/core/upvotes"
)

const maxErrorBody = 64 * 1024

// APIError is a non-2xx response from the API.
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsAPIError reports whether err is an API error with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client is an authenticated API client.
type Client struct {
	http     *http.Client
	logger   *slog.Logger
	baseURL  string
	token    string
	attempts uint
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets how many times a read is tried and the initial backoff.
// Only network errors and 5xx responses are retried. Mutations are sent once.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts == 0 {
			attempts = 1
		}
		c.attempts = attempts
		c.delay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the API at baseURL, authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		attempts: 3,
		delay:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUpvote sets the caller's upvote on item. A nil upvoted flips it server side.
func (c *Client) SetUpvote(ctx context.Context, item toggles.Item, upvoted *bool) (*upvotes.Result, error) {
	body := upvotes.SetUpvoteRequest{
		ItemID:   item.ID,
		ItemType: item.Type,
		AuthorID: item.AuthorID,
		Upvoted:  upvoted,
	}
	var result upvotes.Result
	if err := c.send(ctx, http.MethodPost, "/api/v1/upvotes", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleUpvote sends the desired state for item exactly once. A failure is
// returned to the caller, which rolls back and leaves retrying to the user.
func (c *Client) ToggleUpvote(ctx context.Context, item toggles.Item, upvoted bool) error {
	_, err := c.SetUpvote(ctx, item, &upvoted)
	return err
}

// ListUpvoted returns every log and comment id the caller has upvoted.
func (c *Client) ListUpvoted(ctx context.Context) ([]string, error) {
	var resp struct {
		Items []string `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/upvotes/mine", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetStreak returns userID's streak in tz. An empty tz uses the server default.
func (c *Client) GetStreak(ctx context.Context, userID, tz string) (*streaks.Streak, error) {
	path := "/api/v1/profiles/" + url.PathEscape(userID) + "/streak"
	if tz != "" {
		path += "?tz=" + url.QueryEscape(tz)
	}
	var streak streaks.Streak
	if err := c.do(ctx, http.MethodGet, path, nil, &streak); err != nil {
		return nil, err
	}
	return &streak, nil
}

// GetLog returns a log with the caller's viewer state.
func (c *Client) GetLog(ctx context.Context, id string) (*logs.LogEntry, error) {
	var entry logs.LogEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/logs/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func encode(in interface{}) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return payload, nil
}

// send issues a single request with no retry.
func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := encode(in)
	if err != nil {
		return err
	}
	return c.once(ctx, method, path, payload, out)
}

// do issues an idempotent request, retrying transport failures and 5xx.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := encode(in)
	if err != nil {
		return err
	}

	var lastErr error
	err = retry.Do(
		func() error {
			lastErr = c.once(ctx, method, path, payload, out)
			return lastErr
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(5*time.Second),
		retry.Context(ctx),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying api request", "method", method, "path", path, "attempt", n, "error", err)
		}),
	)
	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}

// retryable reports whether a failed request may succeed if repeated:
// transport failures and 5xx responses.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var permanent *permanentError
	return !errors.As(err, &permanent)
}

// permanentError marks local failures that repeating cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (c *Client) once(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &permanentError{fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &permanentError{fmt.Errorf("failed to decode %s response: %w", path, err)}
	}
	return nil
}
