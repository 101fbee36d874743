// Package api provides the HTTP transport for the SendGrid v2 subuser API.
// Every operation is a form-encoded POST carrying the account credentials
// (api_user, api_key) and answered with a JSON body.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit, type-safe setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// # Response Interpretation
//
// A decoded response body is classified by the first matching rule:
//
//  1. message == "error": the first entry of errors is returned as an [APIError].
//  2. a non-empty error field: error.message is returned as an [APIError].
//  3. message == "success": a plain success [Result] without data.
//  4. anything else: the body is returned verbatim in [Result.Data].
//
// Failures below the API (connection errors, timeouts, bodies that are not
// JSON) are reported as [NetworkError] and never as [APIError].
//
// # Retry Behavior
//
// Retries are disabled by default. When enabled with [Config.MaxRetries],
// only network failures and the status codes in [Config.RetryOn] are retried,
// with exponential backoff. Errors reported by the API in a response body are
// never retried.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
