package subuser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingCredentials is returned when the API user or key is empty.
	ErrMissingCredentials = errors.New("api_user and api_key are required")

	// ErrInvalidArgument matches every *ValidationError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransport matches every *NetworkError.
	ErrTransport = errors.New("transport failure")

	// ErrUnauthorized is returned when the credentials are rejected.
	ErrUnauthorized = errors.New("invalid api_user or api_key")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// SubuserError is implemented by all errors returned by this package.
type SubuserError interface {
	error
	SubuserError() // marker method
}

// APIError is an error reported by SendGrid. Most are delivered with HTTP 200
// and an error body, so StatusCode is often 200.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// SubuserError implements the SubuserError interface.
func (e *APIError) SubuserError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError is a failed round trip or an undecodable response.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *NetworkError) Is(target error) bool {
	return target == ErrTransport
}

// SubuserError implements the SubuserError interface.
func (e *NetworkError) SubuserError() {}

// ValidationError reports malformed arguments. No request is sent when it is
// returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// SubuserError implements the SubuserError interface.
func (e *ValidationError) SubuserError() {}

func invalid(msgs ...string) error {
	return &ValidationError{Errors: msgs}
}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Endpoint:   apiErr.Endpoint,
			RequestID:  apiErr.RequestID,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}

// errorMessage returns the text recorded for a failed removal: the API's own
// message when there is one.
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
