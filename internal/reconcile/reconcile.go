// Package reconcile matches candidate addresses against suppression lists.
//
// The package is pure: callers fetch the lists and perform removals, and
// reconcile decides which address belongs to which category.
package reconcile

// Category names a suppression list.
type Category string

// Suppression categories, plus the bucket for unmatched addresses.
const (
	SpamReports   Category = "Spam Reports"
	Bounces       Category = "Bounces"
	InvalidEmails Category = "Invalid Emails"
	NotSuppressed Category = "Not Suppressed"
)

// Order is the category processing order. A later category overrides an
// earlier one for the same address.
var Order = []Category{SpamReports, Bounces, InvalidEmails}

// Record is one suppressed address with the reason the provider gave.
type Record struct {
	Email  string
	Reason string
}

// Lists holds the fetched records per category. Missing categories are
// treated as empty.
type Lists map[Category][]Record

// Resolution is the outcome for one suppressed candidate.
type Resolution struct {
	Email string
	// Category is the reporting category: the last one in Order that
	// listed the address.
	Category Category
	Reason   string
	// Matched lists every category that listed the address, in Order.
	Matched []Category
}

// Candidates returns emails without duplicates, in first-seen order.
func Candidates(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

// Resolve assigns every candidate either to a suppression category or to the
// not-suppressed set. Resolutions and notSuppressed both follow candidate
// order, and together they cover each candidate exactly once.
//
// Within one category a later duplicate record replaces the reason of an
// earlier one. Records for addresses outside candidates are ignored.
func Resolve(candidates []string, lists Lists) (resolved []Resolution, notSuppressed []string) {
	candidates = Candidates(candidates)

	index := make(map[string]int, len(candidates))
	for i, email := range candidates {
		index[email] = i
	}

	hits := make([]*Resolution, len(candidates))
	for _, category := range Order {
		for _, rec := range lists[category] {
			i, ok := index[rec.Email]
			if !ok {
				continue
			}
			r := hits[i]
			if r == nil {
				r = &Resolution{Email: rec.Email}
				hits[i] = r
			}
			if r.Category != category {
				r.Matched = append(r.Matched, category)
			}
			r.Category = category
			r.Reason = rec.Reason
		}
	}

	for i, email := range candidates {
		if hits[i] == nil {
			notSuppressed = append(notSuppressed, email)
			continue
		}
		resolved = append(resolved, *hits[i])
	}
	return resolved, notSuppressed
}
