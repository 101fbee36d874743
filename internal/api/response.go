package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is a successfully interpreted response.
type Result struct {
	// Success is set when the API answered {"message": "success"}.
	Success bool
	// Data holds the verbatim body for every other non-error reply.
	Data json.RawMessage

	Endpoint  string
	RequestID string
}

// Decode unmarshals Data into v. A plain success reply carries no data and
// fails to decode.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return &NetworkError{
			Err:       fmt.Errorf("%s: response carried no data", r.Endpoint),
			RequestID: r.RequestID,
		}
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &NetworkError{
			Err:       fmt.Errorf("decode %s response: %w", r.Endpoint, err),
			RequestID: r.RequestID,
		}
	}
	return nil
}

type envelope struct {
	Message json.RawMessage `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Error   json.RawMessage `json:"error"`
}

// interpret applies the response rules to a raw reply. Errors other than
// *APIError are decode failures.
func interpret(status int, body []byte) (*Result, error) {
	ok := status >= 200 && status < 300
	trimmed := bytes.TrimSpace(body)

	if !json.Valid(trimmed) {
		if ok {
			return nil, fmt.Errorf("decode response: invalid JSON body (%d bytes)", len(trimmed))
		}
		return nil, fmt.Errorf("unexpected status %d: %s", status, truncate(trimmed, 200))
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		message := stringValue(env.Message)
		if message == "error" {
			return nil, &APIError{StatusCode: status, Message: firstError(env.Errors), reported: true}
		}
		if msg, present := errorMessage(env.Error); present {
			return nil, &APIError{StatusCode: status, Message: msg, reported: true}
		}
		if !ok {
			return nil, &APIError{StatusCode: status, Message: http.StatusText(status)}
		}
		if message == "success" {
			return &Result{Success: true}, nil
		}
	} else if !ok {
		return nil, &APIError{StatusCode: status, Message: http.StatusText(status)}
	}

	return &Result{Data: json.RawMessage(trimmed)}, nil
}

// stringValue returns raw as a string when it is a JSON string.
func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// firstError extracts errors[0], which is usually a string but is accepted as
// an object with a message field as well.
func firstError(raw json.RawMessage) string {
	var first json.RawMessage
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) > 0 {
			first = items[0]
		}
	} else {
		// Some endpoints serialize the list as an object keyed by index.
		var keyed map[string]json.RawMessage
		if json.Unmarshal(raw, &keyed) == nil {
			first = keyed["0"]
		}
	}
	if first == nil {
		return "unknown error"
	}
	if msg, present := errorMessage(first); present {
		return msg
	}
	return "unknown error"
}

// errorMessage reads an error value that is either a string or an object
// with a message field. Empty values (null, "", {}, [], false) are absent.
func errorMessage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", `""`, "{}", "[]", "false", "0":
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}
	return string(raw), true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
