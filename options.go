package subuser

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultConcurrency = 4

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL        string
	userAPIBaseURL string
	httpClient     *http.Client
	timeout        time.Duration
	retries        int
	retryOn        []int
	logger         *zerolog.Logger
	concurrency    int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the customer API base URL.
// Default: https://sendgrid.com/apiv2
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithUserAPIBaseURL sets the base URL of the bounce and spam report
// endpoints.
// Default: https://api.sendgrid.com/api
func WithUserAPIBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.userAPIBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. A client without its own
// Timeout is copied and given the configured timeout; the value passed in
// is never modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout. A request that times out fails
// with a *NetworkError.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for transport failures and the
// status codes given to WithRetryOn. Errors reported by the API are never
// retried.
// Default: 0
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithLogger sets the logger for requests and suppression removals.
// Default: disabled
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithConcurrency sets how many addresses ClearSuppressions removes in
// parallel. Values below 1 select the default.
// Default: 4
func WithConcurrency(n int) Option {
	return func(c *clientConfig) {
		c.concurrency = n
	}
}
