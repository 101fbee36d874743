package subuser

import (
	"bytes"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedScenario(fake *fakeSendGrid) {
	fake.lists[pathSpamReports] = []map[string]string{{"email": "a@x.com", "reason": "r1"}}
	fake.lists[pathBounces] = []map[string]string{{"email": "b@x.com", "reason": "r2"}}
	fake.lists[pathInvalidEmails] = []map[string]string{}
}

func TestSuppressions_ExampleScenario(t *testing.T) {
	client, fake := newFakeClient(t)
	seedScenario(fake)

	report, err := client.Suppressions(t.Context(), "sub", Many("a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"b@x.com": "r2"}, report.Bounces)
	assert.Equal(t, map[string]string{"a@x.com": "r1"}, report.SpamReports)
	assert.Empty(t, report.InvalidEmails)
	assert.Equal(t, []string{"c@x.com"}, report.NotSuppressed)

	assert.Len(t, fake.Requests(pathSpamReports), 1)
	assert.Len(t, fake.Requests(pathBounces), 1)
	assert.Len(t, fake.Requests(pathInvalidEmails), 1)
	for _, req := range fake.Requests("") {
		assert.Equal(t, "get", req.Form.Get("task"))
		assert.Equal(t, "sub", req.Form.Get("user"))
	}
}

func TestSuppressions_Single(t *testing.T) {
	client, fake := newFakeClient(t)
	seedScenario(fake)

	report, err := client.Suppressions(t.Context(), "sub", Single("b@x.com"))
	require.NoError(t, err)
	assert.Equal(t, CategoryBounces, report.Category("b@x.com"))
	assert.Equal(t, 1, report.Len())
}

func TestSuppressions_PartitionsCandidates(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.lists[pathSpamReports] = []map[string]string{{"email": "a@x.com"}, {"email": "stranger@x.com"}}
	fake.lists[pathBounces] = []map[string]string{{"email": "c@x.com", "reason": "550 mailbox full"}}
	fake.lists[pathInvalidEmails] = []map[string]string{{"email": "e@x.com", "reason": "bad domain"}}

	candidates := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	report, err := client.Suppressions(t.Context(), "sub", Many(candidates...))
	require.NoError(t, err)

	assert.Equal(t, len(candidates), report.Len())
	for _, email := range candidates {
		assert.True(t, report.Contains(email), email)
	}
	assert.False(t, report.Contains("stranger@x.com"))
	assert.Equal(t, "", report.SpamReports["a@x.com"])
	assert.Equal(t, "550 mailbox full", report.Bounces["c@x.com"])
	assert.Equal(t, []string{"b@x.com", "d@x.com"}, report.NotSuppressed)
}

func TestSuppressions_OverlapReportsLastCategory(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.lists[pathSpamReports] = []map[string]string{{"email": "a@x.com"}}
	fake.lists[pathBounces] = []map[string]string{{"email": "a@x.com", "reason": "bounced"}}

	report, err := client.Suppressions(t.Context(), "sub", Single("a@x.com"))
	require.NoError(t, err)

	assert.Equal(t, CategoryBounces, report.Category("a@x.com"))
	assert.Empty(t, report.SpamReports)
	assert.Equal(t, 1, report.Len())
}

func TestSuppressions_FetchErrorFailsCall(t *testing.T) {
	client, fake := newFakeClient(t)
	seedScenario(fake)
	fake.replies[pathBounces] = `{"error": {"message": "Permission denied"}}`

	report, err := client.Suppressions(t.Context(), "sub", Single("a@x.com"))
	assert.Nil(t, report)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Permission denied", apiErr.Message)
}

func TestSuppressions_Validation(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		emails Emails
	}{
		{"blank subuser", "", Single("a@x.com")},
		{"zero emails", "sub", Emails{}},
		{"empty list", "sub", Many()},
		{"blank address", "sub", Many("a@x.com", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newFakeClient(t)

			_, err := client.Suppressions(t.Context(), tt.user, tt.emails)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			_, err = client.ClearSuppressions(t.Context(), tt.user, tt.emails)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			assert.Empty(t, fake.Requests(""))
		})
	}
}

func TestClearSuppressions(t *testing.T) {
	client, fake := newFakeClient(t)
	seedScenario(fake)

	report, err := client.ClearSuppressions(t.Context(), "sub", Many("a@x.com", "b@x.com", "c@x.com"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a@x.com": OutcomeCleared}, report.SpamReports)
	assert.Equal(t, map[string]string{"b@x.com": OutcomeCleared}, report.Bounces)
	assert.Empty(t, report.InvalidEmails)
	assert.Equal(t, []string{"c@x.com"}, report.NotSuppressed)

	deletes := func(path string) []string {
		var emails []string
		for _, req := range fake.Requests(path) {
			if req.Form.Get("task") == "delete" {
				emails = append(emails, req.Form.Get("email"))
			}
		}
		return emails
	}
	assert.Equal(t, []string{"a@x.com"}, deletes(pathSpamReports))
	assert.Equal(t, []string{"b@x.com"}, deletes(pathBounces))
	assert.Empty(t, deletes(pathInvalidEmails))
}

func TestClearSuppressions_PartialFailure(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.lists[pathBounces] = []map[string]string{
		{"email": "a@x.com", "reason": "550"},
		{"email": "b@x.com", "reason": "550"},
	}
	fake.lists[pathInvalidEmails] = []map[string]string{{"email": "c@x.com", "reason": "bad"}}
	fake.failDeletes["b@x.com"] = "Email does not exist"

	report, err := client.ClearSuppressions(t.Context(), "sub", Many("a@x.com", "b@x.com", "c@x.com", "d@x.com"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeCleared, report.Bounces["a@x.com"])
	assert.Equal(t, OutcomeFailedPrefix+"Email does not exist", report.Bounces["b@x.com"])
	assert.Equal(t, OutcomeCleared, report.InvalidEmails["c@x.com"])
	assert.Equal(t, []string{"d@x.com"}, report.NotSuppressed)
	assert.Equal(t, 4, report.Len())
}

func TestClearSuppressions_RemovesFromEveryMatchedCategory(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.lists[pathSpamReports] = []map[string]string{{"email": "a@x.com"}}
	fake.lists[pathInvalidEmails] = []map[string]string{{"email": "a@x.com", "reason": "bad"}}

	report, err := client.ClearSuppressions(t.Context(), "sub", Single("a@x.com"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a@x.com": OutcomeCleared}, report.InvalidEmails)
	assert.Empty(t, report.SpamReports)
	assert.Len(t, fake.Requests(pathSpamReports), 2)
	assert.Len(t, fake.Requests(pathInvalidEmails), 2)
}

func TestClearSuppressions_TransportFailureIsRecorded(t *testing.T) {
	fake := newFakeSendGrid()
	fake.lists[pathBounces] = []map[string]string{{"email": "a@x.com", "reason": "550"}}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == pathBounces && r.FormValue("task") == "delete" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fake.ServeHTTP(w, r)
	}))

	report, err := client.ClearSuppressions(t.Context(), "sub", Single("a@x.com"))
	require.NoError(t, err)
	assert.Contains(t, report.Bounces["a@x.com"], OutcomeFailedPrefix)
}

func TestClearSuppressions_BoundedConcurrency(t *testing.T) {
	fake := newFakeSendGrid()
	var candidates []string
	var records []map[string]string
	for i := range 12 {
		email := fmt.Sprintf("user%d@x.com", i)
		candidates = append(candidates, email)
		records = append(records, map[string]string{"email": email, "reason": "550"})
	}
	fake.lists[pathBounces] = records

	var inFlight, peak atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("task") == "delete" {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
		}
		fake.ServeHTTP(w, r)
	}), WithConcurrency(3))

	report, err := client.ClearSuppressions(t.Context(), "sub", Many(candidates...))
	require.NoError(t, err)

	assert.Len(t, report.Bounces, len(candidates))
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestClearSuppressions_LogsRedactedAddresses(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	client, fake := newFakeClient(t, WithLogger(logger))
	fake.lists[pathBounces] = []map[string]string{{"email": "john.doe@example.com", "reason": "550"}}

	_, err := client.ClearSuppressions(t.Context(), "sub", Single("john.doe@example.com"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "jo***@example.com")
	assert.Contains(t, out, "suppression cleared")
	assert.NotContains(t, out, "john.doe@example.com")
}

func TestSuppressionLists(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.lists[pathBounces] = []map[string]string{{"email": "a@x.com", "reason": "550", "status": "5.1.1", "created": "2024-03-09 10:00:00"}}
	fake.lists[pathSpamReports] = []map[string]string{{"email": "s@x.com", "ip": "10.0.0.1"}}
	fake.lists[pathInvalidEmails] = []map[string]string{{"email": "bad@", "reason": "invalid"}}

	bounces, err := client.Bounces(t.Context(), "sub")
	require.NoError(t, err)
	assert.Equal(t, []SuppressionRecord{{Email: "a@x.com", Reason: "550", Status: "5.1.1", Created: "2024-03-09 10:00:00"}}, bounces)

	spam, err := client.SpamReports(t.Context(), "sub")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", spam[0].IP)

	invalidEmails, err := client.InvalidEmails(t.Context(), "sub", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, invalidEmails, 1)
	assert.Equal(t, "2024-03-09", fake.Last(t).Form.Get("date"))
}

func TestRemoveSuppression(t *testing.T) {
	client, fake := newFakeClient(t)

	require.NoError(t, client.RemoveSpamReport(t.Context(), "sub", "a@x.com"))
	assert.Equal(t, pathSpamReports, fake.Last(t).Path)

	require.NoError(t, client.RemoveBounce(t.Context(), "sub", "a@x.com"))
	assert.Equal(t, pathBounces, fake.Last(t).Path)

	require.NoError(t, client.RemoveInvalidEmail(t.Context(), "sub", "a@x.com"))
	req := fake.Last(t)
	assert.Equal(t, pathInvalidEmails, req.Path)
	assert.Equal(t, "a@x.com", req.Form.Get("email"))
	assert.NotContains(t, req.Form, "date")

	assert.ErrorIs(t, client.RemoveBounce(t.Context(), "sub", ""), ErrInvalidArgument)
}
