package subuser

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// Client manages the subusers of one SendGrid account. It is safe for
// concurrent use.
type Client struct {
	apiClient   *api.Client
	logger      zerolog.Logger
	concurrency int
}

// New creates a client authenticated with the parent account's API user and
// key. Both are required.
func New(apiUser, apiKey string, opts ...Option) (*Client, error) {
	if apiUser == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientConfig{
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = defaultConcurrency
	}

	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	apiClient, err := buildAPIClient(apiUser, apiKey, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient:   apiClient,
		logger:      logger.With().Str("component", "sendgrid-subuser").Logger(),
		concurrency: cfg.concurrency,
	}, nil
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(apiUser, apiKey string, cfg *clientConfig, logger zerolog.Logger) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithLogger(logger),
	}
	if cfg.baseURL != "" {
		apiOpts = append(apiOpts, api.WithBaseURL(cfg.baseURL))
	}
	if cfg.userAPIBaseURL != "" {
		apiOpts = append(apiOpts, api.WithUserAPIBaseURL(cfg.userAPIBaseURL))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.retries > 0 {
		apiOpts = append(apiOpts, api.WithRetries(cfg.retries))
	}
	if len(cfg.retryOn) > 0 {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}

	apiClient, err := api.New(apiUser, apiKey, apiOpts...)
	if err != nil {
		return nil, err
	}

	return apiClient, nil
}

// BaseURL returns the customer API base URL.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// requireUser validates the subuser argument shared by most operations.
func requireUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return invalid("subuser is required")
	}
	return nil
}
