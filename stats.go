package subuser

import (
	"context"
	"time"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// StatsQuery narrows a statistics query. Days counts back from today;
// StartDate and EndDate select an explicit range. Zero values are not sent.
type StatsQuery = api.StatsRequest

// Stat is one row of delivery statistics. Date is zero for aggregates.
type Stat struct {
	Date               time.Time
	Category           string
	Requests           int64
	Delivered          int64
	Bounces            int64
	RepeatBounces      int64
	Blocked            int64
	Clicks             int64
	UniqueClicks       int64
	Opens              int64
	UniqueOpens        int64
	SpamReports        int64
	RepeatSpamReports  int64
	InvalidEmail       int64
	Unsubscribes       int64
	RepeatUnsubscribes int64
	SpamDrop           int64
}

func statFromDTO(d api.StatDTO) Stat {
	s := Stat{
		Category:           d.Category,
		Requests:           int64(d.Requests),
		Delivered:          int64(d.Delivered),
		Bounces:            int64(d.Bounces),
		RepeatBounces:      int64(d.RepeatBounces),
		Blocked:            int64(d.Blocked),
		Clicks:             int64(d.Clicks),
		UniqueClicks:       int64(d.UniqueClicks),
		Opens:              int64(d.Opens),
		UniqueOpens:        int64(d.UniqueOpens),
		SpamReports:        int64(d.SpamReports),
		RepeatSpamReports:  int64(d.RepeatSpamReports),
		InvalidEmail:       int64(d.InvalidEmail),
		Unsubscribes:       int64(d.Unsubscribes),
		RepeatUnsubscribes: int64(d.RepeatUnsubscribes),
		SpamDrop:           int64(d.SpamDrop),
	}
	if t, err := time.Parse(api.DateLayout, d.Date); err == nil {
		s.Date = t
	}
	return s
}

func statsFromDTOs(dtos []api.StatDTO) []Stat {
	stats := make([]Stat, 0, len(dtos))
	for _, d := range dtos {
		stats = append(stats, statFromDTO(d))
	}
	return stats
}

// Statistics returns daily statistics for a subuser.
func (c *Client) Statistics(ctx context.Context, user string, q StatsQuery) ([]Stat, error) {
	if err := validateStats(user, q); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetStats(ctx, user, q)
	if err != nil {
		return nil, wrapError(err)
	}
	return statsFromDTOs(dtos), nil
}

// CategoryStatistics returns daily statistics for one category.
func (c *Client) CategoryStatistics(ctx context.Context, user, category string, q StatsQuery) ([]Stat, error) {
	if err := validateStats(user, q); err != nil {
		return nil, err
	}
	if category == "" {
		return nil, invalid("category is required")
	}
	dtos, err := c.apiClient.GetCategoryStats(ctx, user, category, q)
	if err != nil {
		return nil, wrapError(err)
	}
	return statsFromDTOs(dtos), nil
}

// Aggregates returns all-time totals for a subuser.
func (c *Client) Aggregates(ctx context.Context, user string) (*Stat, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dto, err := c.apiClient.GetAggregates(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	s := statFromDTO(*dto)
	return &s, nil
}

// Categories lists the categories a subuser has sent mail under.
func (c *Client) Categories(ctx context.Context, user string) ([]string, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	names, err := c.apiClient.ListCategories(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	return names, nil
}

func validateStats(user string, q StatsQuery) error {
	if err := requireUser(user); err != nil {
		return err
	}
	var problems []string
	if q.Days < 0 {
		problems = append(problems, "days must not be negative")
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		problems = append(problems, "end date is before start date")
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}
	return nil
}
