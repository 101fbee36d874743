package subuser

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	pathSpamReports   = "/api/user.spamreports.json"
	pathBounces       = "/api/user.bounces.json"
	pathInvalidEmails = "/customer.invalidemails.json"
)

type fakeRequest struct {
	Path string
	Form url.Values
}

// fakeSendGrid answers like the v2 API. Suppression lists are served from
// lists, deletes of addresses in failDeletes answer with an API error, and
// replies overrides the body for a path.
type fakeSendGrid struct {
	mu          sync.Mutex
	lists       map[string][]map[string]string
	failDeletes map[string]string
	replies     map[string]string
	requests    []fakeRequest
}

func newFakeSendGrid() *fakeSendGrid {
	return &fakeSendGrid{
		lists:       map[string][]map[string]string{},
		failDeletes: map[string]string{},
		replies:     map[string]string{},
	}
}

func (f *fakeSendGrid) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, fakeRequest{Path: r.URL.Path, Form: r.PostForm})
	w.Header().Set("Content-Type", "application/json")

	if reply, ok := f.replies[r.URL.Path]; ok {
		_, _ = w.Write([]byte(reply))
		return
	}

	switch r.PostForm.Get("task") {
	case "get":
		if list, ok := f.lists[r.URL.Path]; ok {
			_ = json.NewEncoder(w).Encode(list)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	case "delete":
		if msg, ok := f.failDeletes[r.PostForm.Get("email")]; ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "error", "errors": []string{msg}})
			return
		}
		_, _ = w.Write([]byte(`{"message": "success"}`))
	default:
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}
}

// Requests returns the recorded requests to path, or all requests when path
// is empty.
func (f *fakeSendGrid) Requests(path string) []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRequest
	for _, req := range f.requests {
		if path == "" || req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Last returns the most recent request.
func (f *fakeSendGrid) Last(t *testing.T) fakeRequest {
	t.Helper()
	reqs := f.Requests("")
	require.NotEmpty(t, reqs, "no request recorded")
	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithBaseURL(server.URL),
		WithUserAPIBaseURL(server.URL + "/api"),
	}, opts...)

	client, err := New("test-user", "test-key", opts...)
	require.NoError(t, err)
	return client
}

func newFakeClient(t *testing.T, opts ...Option) (*Client, *fakeSendGrid) {
	t.Helper()
	fake := newFakeSendGrid()
	return newTestClient(t, fake, opts...), fake
}
