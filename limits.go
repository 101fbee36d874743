package subuser

import (
	"context"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// Credit reset periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// RecurringReset describes a recurring credit reset. Credits and Period are
// required; the dates and InitialCredits are optional.
type RecurringReset = api.RecurringResetRequest

// Limits returns the credit limits of a subuser.
func (c *Client) Limits(ctx context.Context, user string) (Payload, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	p, err := c.apiClient.GetLimits(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	return p, nil
}

// RemoveLimits removes every credit limit of a subuser.
func (c *Client) RemoveLimits(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.RemoveLimits(ctx, user))
}

// RecurringReset resets a subuser's credits to r.Credits every period.
func (c *Client) RecurringReset(ctx context.Context, user string, r RecurringReset) error {
	if err := requireUser(user); err != nil {
		return err
	}

	var problems []string
	if r.Credits <= 0 {
		problems = append(problems, "credits must be greater than 0")
	}
	switch r.Period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		problems = append(problems, "period must be daily, weekly or monthly")
	}
	if r.InitialCredits < 0 {
		problems = append(problems, "initial credits must not be negative")
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		problems = append(problems, "end date is before start date")
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}

	return wrapError(c.apiClient.SetRecurringReset(ctx, user, r))
}

// SetCredits sets a subuser's credit total.
func (c *Client) SetCredits(ctx context.Context, user string, credits int) error {
	if err := validateCredits(user, credits); err != nil {
		return err
	}
	return wrapError(c.apiClient.SetTotalCredits(ctx, user, credits))
}

// IncrementCredits adds credits to a subuser.
func (c *Client) IncrementCredits(ctx context.Context, user string, credits int) error {
	if err := validateCredits(user, credits); err != nil {
		return err
	}
	return wrapError(c.apiClient.IncrementCredits(ctx, user, credits))
}

// DecrementCredits takes credits from a subuser.
func (c *Client) DecrementCredits(ctx context.Context, user string, credits int) error {
	if err := validateCredits(user, credits); err != nil {
		return err
	}
	return wrapError(c.apiClient.DecrementCredits(ctx, user, credits))
}

func validateCredits(user string, credits int) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if credits <= 0 {
		return invalid("credits must be greater than 0")
	}
	return nil
}
