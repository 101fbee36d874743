package subuser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
	"github.com/stechstudio/sendgrid-subuser-go/internal/reconcile"
)

// SuppressionRecord is one entry of a suppression list. Spam reports carry
// no reason.
type SuppressionRecord struct {
	Email   string
	Reason  string
	Status  string
	Created string
	IP      string
}

func recordsFromDTOs(dtos []api.SuppressionDTO) []SuppressionRecord {
	records := make([]SuppressionRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, SuppressionRecord{
			Email:   d.Email,
			Reason:  d.Reason,
			Status:  d.Status,
			Created: d.Created,
			IP:      d.IP,
		})
	}
	return records
}

// SpamReports lists the addresses that reported a subuser's mail as spam.
func (c *Client) SpamReports(ctx context.Context, user string) ([]SuppressionRecord, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetSpamReports(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	return recordsFromDTOs(dtos), nil
}

// Bounces lists the bounced addresses of a subuser.
func (c *Client) Bounces(ctx context.Context, user string) ([]SuppressionRecord, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetBounces(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	return recordsFromDTOs(dtos), nil
}

// InvalidEmails lists the invalid addresses of a subuser. A non-zero date
// limits the list to that day.
func (c *Client) InvalidEmails(ctx context.Context, user string, date time.Time) ([]SuppressionRecord, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetInvalidEmails(ctx, user, date)
	if err != nil {
		return nil, wrapError(err)
	}
	return recordsFromDTOs(dtos), nil
}

// RemoveSpamReport removes email from a subuser's spam report list.
func (c *Client) RemoveSpamReport(ctx context.Context, user, email string) error {
	return c.remove(ctx, CategorySpamReports, user, email)
}

// RemoveBounce removes email from a subuser's bounce list.
func (c *Client) RemoveBounce(ctx context.Context, user, email string) error {
	return c.remove(ctx, CategoryBounces, user, email)
}

// RemoveInvalidEmail removes email from a subuser's invalid email list.
func (c *Client) RemoveInvalidEmail(ctx context.Context, user, email string) error {
	return c.remove(ctx, CategoryInvalidEmails, user, email)
}

func (c *Client) remove(ctx context.Context, category Category, user, email string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		return invalid("email is required")
	}

	var err error
	switch category {
	case CategorySpamReports:
		err = c.apiClient.DeleteSpamReport(ctx, user, email)
	case CategoryBounces:
		err = c.apiClient.DeleteBounce(ctx, user, email)
	case CategoryInvalidEmails:
		err = c.apiClient.DeleteInvalidEmail(ctx, user, email)
	default:
		return invalid(fmt.Sprintf("unknown suppression category %q", category))
	}
	return wrapError(err)
}

// Suppressions reports for each address whether it is on a suppression list
// of the subuser and why.
//
// The three lists are fetched in parallel and any fetch error fails the call.
// An address listed in several categories is reported under the last of
// Spam Reports, Bounces and Invalid Emails.
func (c *Client) Suppressions(ctx context.Context, user string, emails Emails) (*SuppressionReport, error) {
	if err := validateSuppressionArgs(user, emails); err != nil {
		return nil, err
	}

	lists, err := c.fetchSuppressions(ctx, user)
	if err != nil {
		return nil, err
	}

	resolved, notSuppressed := reconcile.Resolve(emails.addresses, lists)

	report := newSuppressionReport()
	for _, r := range resolved {
		report.set(r.Category, r.Email, r.Reason)
	}
	report.NotSuppressed = append(report.NotSuppressed, notSuppressed...)
	return report, nil
}

// ClearSuppressions removes each address from every suppression list it is
// on and reports the outcome per address: OutcomeCleared, or
// OutcomeFailedPrefix followed by the first error. Failed removals do not
// stop the others.
//
// An error is returned only when the lists cannot be fetched. The reporting
// category follows the rule of Suppressions.
func (c *Client) ClearSuppressions(ctx context.Context, user string, emails Emails) (*SuppressionReport, error) {
	if err := validateSuppressionArgs(user, emails); err != nil {
		return nil, err
	}

	lists, err := c.fetchSuppressions(ctx, user)
	if err != nil {
		return nil, err
	}

	resolved, notSuppressed := reconcile.Resolve(emails.addresses, lists)

	outcomes := make([]string, len(resolved))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, r := range resolved {
		g.Go(func() error {
			outcomes[i] = c.clearAddress(ctx, user, r)
			return nil
		})
	}
	_ = g.Wait()

	report := newSuppressionReport()
	for i, r := range resolved {
		report.set(r.Category, r.Email, outcomes[i])
	}
	report.NotSuppressed = append(report.NotSuppressed, notSuppressed...)
	return report, nil
}

// clearAddress removes one address from every category that listed it.
func (c *Client) clearAddress(ctx context.Context, user string, r reconcile.Resolution) string {
	var failure error
	for _, category := range r.Matched {
		err := c.remove(ctx, category, user, r.Email)
		log := c.logger.With().
			Str("subuser", user).
			Str("email", redactEmail(r.Email)).
			Str("category", string(category)).
			Logger()
		if err != nil {
			log.Warn().Err(err).Msg("suppression removal failed")
			if failure == nil {
				failure = err
			}
			continue
		}
		log.Info().Msg("suppression cleared")
	}

	if failure != nil {
		return OutcomeFailedPrefix + errorMessage(failure)
	}
	return OutcomeCleared
}

// fetchSuppressions loads the three suppression lists concurrently.
func (c *Client) fetchSuppressions(ctx context.Context, user string) (reconcile.Lists, error) {
	var spam, bounces, invalidEmails []api.SuppressionDTO

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spam, err = c.apiClient.GetSpamReports(gctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		bounces, err = c.apiClient.GetBounces(gctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		invalidEmails, err = c.apiClient.GetInvalidEmails(gctx, user, time.Time{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapError(err)
	}

	c.logger.Debug().
		Str("subuser", user).
		Int("spam_reports", len(spam)).
		Int("bounces", len(bounces)).
		Int("invalid_emails", len(invalidEmails)).
		Msg("suppression lists fetched")

	return reconcile.Lists{
		CategorySpamReports:   toRecords(spam),
		CategoryBounces:       toRecords(bounces),
		CategoryInvalidEmails: toRecords(invalidEmails),
	}, nil
}

func toRecords(dtos []api.SuppressionDTO) []reconcile.Record {
	records := make([]reconcile.Record, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, reconcile.Record{Email: d.Email, Reason: d.Reason})
	}
	return records
}

func validateSuppressionArgs(user string, emails Emails) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return emails.validate()
}

// redactEmail masks an address for logging: jo***@example.com. Local parts
// of two characters or fewer are masked entirely.
func redactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if r := []rune(local); len(r) > 2 {
		return string(r[:2]) + "***@" + domain
	}
	return "***@" + domain
}
