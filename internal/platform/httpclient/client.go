// Package httpclient is the outbound HTTP plumbing shared by every external
// provider: request construction, status classification, rate limiting,
// latency metrics and (for idempotent lookups only) retry with backoff.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"route-optimizer-service/internal/metrics"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Client wraps an *http.Client with a per-provider rate limit and metrics.
// It is safe for concurrent use.
type Client struct {
	Provider string
	HTTP     *http.Client
	Limiter  *rate.Limiter
}

// New builds a client whose requests time out after timeout. A positive
// ratePerSecond caps outbound calls; zero disables limiting.
func New(provider string, timeout time.Duration, ratePerSecond float64) *Client {
	c := &Client{
		Provider: provider,
		HTTP:     &http.Client{Timeout: timeout},
	}
	if ratePerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return c
}

func (c *Client) NewRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do sends req once. Non-2xx responses are returned as *StatusError with
// the body already drained and closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context()); err != nil {
			c.observe("rate_limited", 0)
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.observe("network_error", time.Since(start))
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.observe("http_error", time.Since(start))
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	c.observe("ok", time.Since(start))
	return resp, nil
}

// DoJSON sends req once and decodes a successful body into out.
func (c *Client) DoJSON(req *http.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.Provider, err)
	}
	return nil
}

// DoWithRetry retries transient failures (network errors, 429 and 5xx
// responses) using exponential backoff while respecting context cancellation.
// Optimization providers are never retried; this is for lookups only.
func (c *Client) DoWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func (c *Client) observe(outcome string, d time.Duration) {
	metrics.ProviderRequests.WithLabelValues(c.Provider, outcome).Inc()
	if d > 0 {
		metrics.ProviderDuration.WithLabelValues(c.Provider).Observe(d.Seconds())
	}
}
