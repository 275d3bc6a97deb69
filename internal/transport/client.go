// Package transport provides the shared HTTP client used by the FEC and
// store clients: authentication strategies, a caller-specified timeout,
// and an explicit opt-in retry policy for transient upstream failures.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/logging"
)

// Client provides HTTP client functionality with authentication and an
// opt-in retry policy. Retries default to zero; transient failures
// propagate to the caller unless retries were requested explicitly.
type Client struct {
	http    *http.Client
	auth    Authenticator
	retries int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout for all requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRetries enables retrying transient failures (network errors, 429s,
// and 5xx responses) up to n additional attempts with linear backoff.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		if n > constants.MaxRetries {
			n = constants.MaxRetries
		}
		c.retries = n
	}
}

// WithHTTPClient replaces the underlying http.Client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth: auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewValidationError("url", url, err.Error())
	}
	return c.Do(req)
}

// Do performs an HTTP request with authentication applied. Transient
// failures are retried according to the configured retry policy.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		resp, err = c.http.Do(req)
		if !c.shouldRetry(resp, err) || attempt >= c.retries {
			break
		}

		if resp != nil {
			_ = resp.Body.Close()
		}

		backoff := constants.RetryBackoff * time.Duration(attempt+1)
		if backoff > constants.MaxRetryBackoff {
			backoff = constants.MaxRetryBackoff
		}
		logging.Ctx(req.Context()).Warn().
			Int("attempt", attempt+1).
			Str("url", req.URL.String()).
			Dur("backoff", backoff).
			Msg("Transient upstream failure, retrying")

		select {
		case <-req.Context().Done():
			return nil, errors.WrapAPI(req.URL.Host, 0, req.Context().Err())
		case <-time.After(backoff):
		}
	}

	if err != nil {
		return nil, errors.WrapAPI(req.URL.Host, 0, err)
	}
	return resp, nil
}

// shouldRetry reports whether a response or error is a transient failure.
func (c *Client) shouldRetry(resp *http.Response, err error) bool {
	if c.retries == 0 {
		return false
	}
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}
