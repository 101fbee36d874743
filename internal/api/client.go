package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Default configuration values.
const (
	DefaultBaseURL        = "https://sendgrid.com/apiv2"
	DefaultUserAPIBaseURL = "https://api.sendgrid.com/api"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRetries     = 0
	DefaultRetryDelay     = time.Second
)

// Config holds the configuration for the API client.
type Config struct {
	// BaseURL is the root of the customer.* endpoints.
	BaseURL string
	// UserAPIBaseURL is the root of the user.* bounce and spam report endpoints.
	UserAPIBaseURL string
	// APIUser and APIKey are injected into every request.
	APIUser string
	APIKey  string
	// HTTPClient overrides the default client. When its own Timeout is zero a
	// copy carrying Timeout is used instead.
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// RetryOn lists status codes that are retried. Defaults to DefaultRetryOn.
	RetryOn []int
	// Logger receives request logs. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Client is the HTTP API client.
type Client struct {
	baseURL        string
	userAPIBaseURL string
	apiUser        string
	apiKey         string
	httpClient     *http.Client
	retry          *retryPolicy
	logger         zerolog.Logger
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the customer API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithUserAPIBaseURL sets the user API base URL.
func WithUserAPIBaseURL(url string) Option {
	return func(c *Config) {
		c.UserAPIBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the number of retries.
func WithRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithRetryOn sets the status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Config) {
		c.RetryOn = statusCodes
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &logger
	}
}

// New creates a new API client for the given account credentials.
func New(apiUser, apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{
		APIUser: apiUser,
		APIKey:  apiKey,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIUser == "" || cfg.APIKey == "" {
		return nil, errors.New("api_user and api_key are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAPIBaseURL == "" {
		cfg.UserAPIBaseURL = DefaultUserAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	httpClient := cfg.HTTPClient
	switch {
	case httpClient == nil:
		httpClient = &http.Client{Timeout: cfg.Timeout}
	case httpClient.Timeout == 0:
		// Never send without a time limit; the caller's client is not modified.
		clone := *httpClient
		clone.Timeout = cfg.Timeout
		httpClient = &clone
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAPIBaseURL: strings.TrimRight(cfg.UserAPIBaseURL, "/"),
		apiUser:        cfg.APIUser,
		apiKey:         cfg.APIKey,
		httpClient:     httpClient,
		retry:          newRetryPolicy(cfg.MaxRetries, cfg.RetryDelay, cfg.RetryOn),
		logger:         logger.With().Str("component", "sendgrid-api").Logger(),
	}, nil
}

// BaseURL returns the customer API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// userURL returns the absolute URL of a user.* endpoint.
func (c *Client) userURL(endpoint string) string {
	return c.userAPIBaseURL + "/" + endpoint
}

// resolve returns endpoint unchanged when it is already absolute and joins it
// to the base URL otherwise.
func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// form merges the credentials into fields. Caller fields win on collision.
func (c *Client) form(fields url.Values) url.Values {
	form := url.Values{
		"api_user": {c.apiUser},
		"api_key":  {c.apiKey},
	}
	for key, values := range fields {
		form[key] = values
	}
	return form
}

// Post sends fields to endpoint and interprets the JSON reply.
func (c *Client) Post(ctx context.Context, endpoint string, fields url.Values) (*Result, error) {
	target := c.resolve(endpoint)
	payload := c.form(fields).Encode()
	requestID := uuid.NewString()

	log := c.logger.With().
		Str("endpoint", endpoint).
		Str("task", fields.Get("task")).
		Str("request_id", requestID).
		Logger()

	for attempt := 0; ; attempt++ {
		start := time.Now()
		status, body, err := c.send(ctx, target, requestID, payload)
		if err != nil {
			if c.retry.retryNetwork(ctx, attempt) {
				log.Warn().Err(err).Int("attempt", attempt+1).Msg("request failed, retrying")
				if werr := c.retry.wait(ctx, attempt); werr != nil {
					return nil, &NetworkError{Err: werr, URL: target, Attempt: attempt + 1, RequestID: requestID}
				}
				continue
			}
			log.Debug().Err(err).Int("attempt", attempt+1).Msg("request failed")
			return nil, &NetworkError{Err: err, URL: target, Attempt: attempt + 1, RequestID: requestID}
		}

		// An error reported in the body is final whatever the status.
		result, ierr := interpret(status, body)
		var apiErr *APIError
		reported := errors.As(ierr, &apiErr) && apiErr.reported

		if !reported && c.retry.retryStatus(attempt, status) {
			log.Warn().Int("status", status).Int("attempt", attempt+1).Msg("retryable status, retrying")
			if werr := c.retry.wait(ctx, attempt); werr != nil {
				return nil, &NetworkError{Err: werr, URL: target, Attempt: attempt + 1, RequestID: requestID}
			}
			continue
		}

		log.Debug().
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request complete")

		if ierr != nil {
			return nil, annotate(ierr, endpoint, target, requestID, attempt+1)
		}
		result.Endpoint = endpoint
		result.RequestID = requestID
		return result, nil
	}
}

// send performs a single POST and returns the status code and full body.
func (c *Client) send(ctx context.Context, target, requestID, payload string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// annotate fills request context into errors returned by interpret.
func annotate(err error, endpoint, target, requestID string, attempt int) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.Endpoint = endpoint
		apiErr.RequestID = requestID
		return apiErr
	}
	return &NetworkError{Err: err, URL: target, Attempt: attempt, RequestID: requestID}
}
