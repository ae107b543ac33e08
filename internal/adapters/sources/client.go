// Package sources holds the HTTP plumbing shared by the upstream data
// source clients.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 2
	defaultRetryBackoff = 500 * time.Millisecond
	maxErrorBody        = 512
)

// APIError is a non-2xx response from an upstream source.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("source api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client performs paced, retried JSON GETs against one upstream.
type Client struct {
	name         string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       logger.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// NewClient creates a client for the source called name.
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:         name,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       logger.Get().Named("source-" + name),
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the source name used in logs and metrics.
func (c *Client) Name() string { return c.name }

// Logger returns the source logger.
func (c *Client) Logger() logger.Logger { return c.logger }

// GetJSON fetches path and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	start := time.Now()
	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		metrics.RecordSourceRequest(c.name, metrics.OutcomeError, metrics.SinceMs(start))
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordSourceRequest(c.name, metrics.OutcomeError, metrics.SinceMs(start))
		return fmt.Errorf("unmarshal response: %w", err)
	}
	metrics.RecordSourceRequest(c.name, metrics.OutcomeSuccess, metrics.SinceMs(start))
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff
			if backoff > 0 {
				wait = backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			}
			c.logger.Debug(ctx, "retrying request",
				logger.Int("attempt", attempt),
				logger.Duration("backoff", wait),
				logger.String("path", path),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			backoff *= 2
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
