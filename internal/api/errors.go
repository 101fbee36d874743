package api

import (
	"errors"
	"fmt"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrUnauthorized indicates the account credentials were rejected.
	ErrUnauthorized = errors.New("invalid api_user or api_key")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTransport matches every NetworkError.
	ErrTransport = errors.New("transport failure")
)

// APIError is an error reported by SendGrid in a response body.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	RequestID  string

	// reported is set when the error came from the response body rather
	// than from the status code alone.
	reported bool
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request_id: %s)", e.RequestID)
	}
	return msg
}

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

// NetworkError represents a failure to complete the HTTP round trip or to
// decode its response.
type NetworkError struct {
	Err       error
	URL       string
	Attempt   int
	RequestID string
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
