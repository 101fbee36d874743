package subuser

import (
	"encoding/json"
	"slices"

	"github.com/stechstudio/sendgrid-subuser-go/internal/reconcile"
)

// Category names a suppression list.
type Category = reconcile.Category

// Suppression categories. NotSuppressed collects addresses found on no list.
const (
	CategorySpamReports   = reconcile.SpamReports
	CategoryBounces       = reconcile.Bounces
	CategoryInvalidEmails = reconcile.InvalidEmails
	CategoryNotSuppressed = reconcile.NotSuppressed
)

// Outcomes recorded by ClearSuppressions.
const (
	OutcomeCleared      = "Suppression Cleared"
	OutcomeFailedPrefix = "Suppression failed: "
)

// SuppressionReport places every requested address in exactly one category.
//
// Suppressions fills the maps with the reason SendGrid gave. ClearSuppressions
// fills them with the removal outcome instead.
type SuppressionReport struct {
	Bounces       map[string]string
	SpamReports   map[string]string
	InvalidEmails map[string]string
	NotSuppressed []string
}

func newSuppressionReport() *SuppressionReport {
	return &SuppressionReport{
		Bounces:       map[string]string{},
		SpamReports:   map[string]string{},
		InvalidEmails: map[string]string{},
		NotSuppressed: []string{},
	}
}

func (r *SuppressionReport) set(category Category, email, value string) {
	switch category {
	case CategorySpamReports:
		r.SpamReports[email] = value
	case CategoryBounces:
		r.Bounces[email] = value
	case CategoryInvalidEmails:
		r.InvalidEmails[email] = value
	}
}

// Category returns the category email was reported under, or "" when the
// address was not part of the request.
func (r *SuppressionReport) Category(email string) Category {
	if _, ok := r.SpamReports[email]; ok {
		return CategorySpamReports
	}
	if _, ok := r.Bounces[email]; ok {
		return CategoryBounces
	}
	if _, ok := r.InvalidEmails[email]; ok {
		return CategoryInvalidEmails
	}
	if slices.Contains(r.NotSuppressed, email) {
		return CategoryNotSuppressed
	}
	return ""
}

// Contains reports whether email appears anywhere in the report.
func (r *SuppressionReport) Contains(email string) bool {
	return r.Category(email) != ""
}

// Len returns the number of addresses in the report.
func (r *SuppressionReport) Len() int {
	return len(r.Bounces) + len(r.SpamReports) + len(r.InvalidEmails) + len(r.NotSuppressed)
}

// MarshalJSON encodes the report keyed by category name.
func (r *SuppressionReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bounces       map[string]string `json:"Bounces"`
		SpamReports   map[string]string `json:"Spam Reports"`
		InvalidEmails map[string]string `json:"Invalid Emails"`
		NotSuppressed []string          `json:"Not Suppressed"`
	}{
		Bounces:       nonNilMap(r.Bounces),
		SpamReports:   nonNilMap(r.SpamReports),
		InvalidEmails: nonNilMap(r.InvalidEmails),
		NotSuppressed: nonNilSlice(r.NotSuppressed),
	})
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
