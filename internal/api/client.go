// Package api is the fetch layer for the ABFI intelligence API. It performs
// HTTP calls and normalizes results and errors; it never touches the query
// cache; the cache layer decides what to do with each result.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// apiPrefix is prepended to every endpoint path.
	apiPrefix = "/api/v1"

	// defaultTimeout bounds each request so a dead upstream fails fast
	// instead of hanging a dashboard view.
	defaultTimeout = 15 * time.Second

	// Retry tuning. Retrying is opt-in (the upstream contract has none);
	// when enabled, attempts are capped and exponentially backed off so a
	// struggling API is never hammered.
	maxAttempts          = 3
	initialRetryInterval = 200 * time.Millisecond

	requestIDHeader = "X-Request-ID"
)

// Client issues typed requests against one intelligence API deployment.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	retry   bool
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use this to
// point at an httptest server with a short timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the structured logger for request diagnostics.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithRetry enables capped exponential-backoff retries for transport
// failures and 5xx responses. 4xx responses are never retried.
func WithRetry(enabled bool) ClientOption {
	return func(c *Client) { c.retry = enabled }
}

// NewClient creates a client for the given base URL (scheme://host[:port],
// without the /api/v1 prefix).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON fetches path with optional query parameters and decodes the 2xx
// response body into out. Non-2xx responses return *APIError; transport
// failures return a wrapped error.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decodeInto(path, data, out)
}

// PostJSON marshals body, posts it to path, and decodes the 2xx response
// into out. out may be nil for fire-and-forget writes.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api %s: marshal request: %w", path, err)
	}
	data, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return decodeInto(path, data, out)
}

// GetResult fetches path and returns the body as a gjson result, for the
// handful of loosely structured endpoints (kanban board, status) where a
// fixed struct would be a lie.
func (c *Client) GetResult(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	data, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("api %s: invalid JSON response", path)
	}
	return gjson.ParseBytes(data), nil
}

// do runs one logical request, applying the retry policy when enabled, and
// returns the raw 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	op := func() ([]byte, error) {
		data, err := c.attempt(ctx, method, path, params, body)
		if err == nil {
			return data, nil
		}
		if apiErr, ok := AsAPIError(err); ok && !apiErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	if !c.retry {
		data, err := c.attempt(ctx, method, path, params, body)
		return data, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryInterval
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(maxAttempts),
	)
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	u := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("api %s: create request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, ulid.Make().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api %s: request failed: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("component", "api").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, parseAPIError(path, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api %s: read response: %w", path, err)
	}
	return data, nil
}

// decodeInto unmarshals a response body, tolerating nil out for callers
// that ignore the payload.
func decodeInto(path string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api %s: decode response: %w", path, err)
	}
	return nil
}
