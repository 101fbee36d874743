package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// Customer API endpoints, relative to the base URL.
const (
	EndpointProfile        = "customer.profile.json"
	EndpointAdd            = "customer.add.json"
	EndpointEnable         = "customer.enable.json"
	EndpointDisable        = "customer.disable.json"
	EndpointWebsiteEnable  = "customer.website_enable.json"
	EndpointWebsiteDisable = "customer.website_disable.json"
	EndpointApps           = "customer.apps.json"
	EndpointEventPostURL   = "customer.eventposturl.json"
	EndpointInvalidEmails  = "customer.invalidemails.json"
	EndpointParse          = "customer.parse.json"
	EndpointStats          = "customer.stats.json"
	EndpointLimit          = "customer.limit.json"
)

// User API endpoints, relative to the user API base URL.
const (
	EndpointBounces     = "user.bounces.json"
	EndpointSpamReports = "user.spamreports.json"
)

func task(name string) url.Values {
	return url.Values{"task": {name}}
}

func userTask(name, user string) url.Values {
	return url.Values{"task": {name}, "user": {user}}
}

// call posts fields and accepts any non-error reply.
func (c *Client) call(ctx context.Context, endpoint string, fields url.Values) error {
	_, err := c.Post(ctx, endpoint, fields)
	return err
}

// list posts fields and decodes the reply into out. A plain success reply
// leaves out untouched.
func (c *Client) list(ctx context.Context, endpoint string, fields url.Values, out any) error {
	res, err := c.Post(ctx, endpoint, fields)
	if err != nil {
		return err
	}
	if res.Success {
		return nil
	}
	return res.Decode(out)
}

// GetSubusers lists the subusers of the account.
func (c *Client) GetSubusers(ctx context.Context) ([]SubuserDTO, error) {
	var result []SubuserDTO
	if err := c.list(ctx, EndpointProfile, task("get"), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddSubuser creates a subuser.
func (c *Client) AddSubuser(ctx context.Context, req NewSubuserRequest) error {
	return c.call(ctx, EndpointAdd, req.values())
}

// EnableSubuser enables sending for a subuser.
func (c *Client) EnableSubuser(ctx context.Context, user string) error {
	return c.call(ctx, EndpointEnable, url.Values{"user": {user}})
}

// DisableSubuser disables sending for a subuser.
func (c *Client) DisableSubuser(ctx context.Context, user string) error {
	return c.call(ctx, EndpointDisable, url.Values{"user": {user}})
}

// EnableWebsiteAccess allows a subuser to log in to the website.
func (c *Client) EnableWebsiteAccess(ctx context.Context, user string) error {
	return c.call(ctx, EndpointWebsiteEnable, url.Values{"user": {user}})
}

// DisableWebsiteAccess blocks a subuser from the website.
func (c *Client) DisableWebsiteAccess(ctx context.Context, user string) error {
	return c.call(ctx, EndpointWebsiteDisable, url.Values{"user": {user}})
}

// UpdateProfile changes the profile fields set in req.
func (c *Client) UpdateProfile(ctx context.Context, user string, req ProfileRequest) error {
	v := req.values()
	v.Set("task", "set")
	v.Set("user", user)
	return c.call(ctx, EndpointProfile, v)
}

// SetUsername renames a subuser.
func (c *Client) SetUsername(ctx context.Context, user, username string) error {
	v := userTask("setUsername", user)
	v.Set("username", username)
	return c.call(ctx, EndpointProfile, v)
}

// SetPassword changes a subuser's password.
func (c *Client) SetPassword(ctx context.Context, user, password string) error {
	v := url.Values{"user": {user}}
	v.Set("password", password)
	v.Set("confirm_password", password)
	return c.call(ctx, EndpointProfile, v)
}

// SetEmail changes a subuser's contact address.
func (c *Client) SetEmail(ctx context.Context, user, email string) error {
	v := userTask("setEmail", user)
	v.Set("email", email)
	return c.call(ctx, EndpointProfile, v)
}

// GetApps lists the apps available to a subuser with their status.
func (c *Client) GetApps(ctx context.Context, user string) ([]AppDTO, error) {
	var result []AppDTO
	if err := c.list(ctx, EndpointApps, userTask("getavailable", user), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAppSettings returns the settings of one app.
func (c *Client) GetAppSettings(ctx context.Context, user, app string) (*AppSettingsDTO, error) {
	v := userTask("getsettings", user)
	v.Set("name", app)
	var result AppSettingsDTO
	if err := c.list(ctx, EndpointApps, v, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ActivateApp enables an app.
func (c *Client) ActivateApp(ctx context.Context, user, app string) error {
	v := userTask("activate", user)
	v.Set("name", app)
	return c.call(ctx, EndpointApps, v)
}

// DeactivateApp disables an app.
func (c *Client) DeactivateApp(ctx context.Context, user, app string) error {
	v := userTask("deactivate", user)
	v.Set("name", app)
	return c.call(ctx, EndpointApps, v)
}

// SetupApp replaces the settings of an app.
func (c *Client) SetupApp(ctx context.Context, user, app string, settings url.Values) error {
	v := userTask("setup", user)
	v.Set("name", app)
	for key, values := range settings {
		v[key] = values
	}
	return c.call(ctx, EndpointApps, v)
}

// GetEventURL returns the event notification URL, or "" when none is set.
func (c *Client) GetEventURL(ctx context.Context, user string) (string, error) {
	var result []EventURLDTO
	if err := c.list(ctx, EndpointEventPostURL, userTask("get", user), &result); err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", nil
	}
	return result[0].URL, nil
}

// SetEventURL sets the event notification URL.
func (c *Client) SetEventURL(ctx context.Context, user, eventURL string) error {
	v := userTask("set", user)
	v.Set("url", eventURL)
	return c.call(ctx, EndpointEventPostURL, v)
}

// DeleteEventURL removes the event notification URL.
func (c *Client) DeleteEventURL(ctx context.Context, user string) error {
	return c.call(ctx, EndpointEventPostURL, userTask("delete", user))
}

// GetParseSettings returns the inbound parse configuration. The reply is
// either {"parse": [...]} or a bare list.
func (c *Client) GetParseSettings(ctx context.Context, user string) ([]ParseSettingDTO, error) {
	res, err := c.Post(ctx, EndpointParse, userTask("get", user))
	if err != nil || res.Success {
		return nil, err
	}
	var wrapped struct {
		Parse []ParseSettingDTO `json:"parse"`
	}
	if json.Unmarshal(res.Data, &wrapped) == nil {
		return wrapped.Parse, nil
	}
	var result []ParseSettingDTO
	if err := res.Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetStats returns daily statistics.
func (c *Client) GetStats(ctx context.Context, user string, req StatsRequest) ([]StatDTO, error) {
	return c.stats(ctx, user, "", req)
}

// GetCategoryStats returns daily statistics for one category.
func (c *Client) GetCategoryStats(ctx context.Context, user, category string, req StatsRequest) ([]StatDTO, error) {
	return c.stats(ctx, user, category, req)
}

func (c *Client) stats(ctx context.Context, user, category string, req StatsRequest) ([]StatDTO, error) {
	v := url.Values{"user": {user}}
	setOptional(v, "category", category)
	req.apply(v)
	var result []StatDTO
	if err := c.list(ctx, EndpointStats, v, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAggregates returns all-time totals. The reply is an object or a list
// holding a single object.
func (c *Client) GetAggregates(ctx context.Context, user string) (*StatDTO, error) {
	res, err := c.Post(ctx, EndpointStats, url.Values{"user": {user}, "aggregate": {"1"}})
	if err != nil {
		return nil, err
	}
	var result StatDTO
	if res.Success {
		return &result, nil
	}
	var rows []StatDTO
	if json.Unmarshal(res.Data, &rows) == nil {
		if len(rows) > 0 {
			result = rows[0]
		}
		return &result, nil
	}
	if err := res.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCategories returns the category names used by a subuser.
func (c *Client) ListCategories(ctx context.Context, user string) ([]string, error) {
	var rows []struct {
		Category string `json:"category"`
	}
	if err := c.list(ctx, EndpointStats, url.Values{"user": {user}, "list": {"true"}}, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Category)
	}
	return names, nil
}

// GetLimits returns the credit limits of a subuser.
func (c *Client) GetLimits(ctx context.Context, user string) (Payload, error) {
	res, err := c.Post(ctx, EndpointLimit, userTask("retrieve", user))
	if err != nil {
		return nil, err
	}
	return Payload(res.Data), nil
}

// RemoveLimits removes every credit limit.
func (c *Client) RemoveLimits(ctx context.Context, user string) error {
	return c.call(ctx, EndpointLimit, userTask("none", user))
}

// SetRecurringReset configures a recurring credit reset.
func (c *Client) SetRecurringReset(ctx context.Context, user string, req RecurringResetRequest) error {
	v := userTask("recurring", user)
	req.apply(v)
	return c.call(ctx, EndpointLimit, v)
}

// SetTotalCredits sets the credit total.
func (c *Client) SetTotalCredits(ctx context.Context, user string, credits int) error {
	return c.credits(ctx, "total", user, credits)
}

// IncrementCredits adds credits.
func (c *Client) IncrementCredits(ctx context.Context, user string, credits int) error {
	return c.credits(ctx, "increment", user, credits)
}

// DecrementCredits removes credits.
func (c *Client) DecrementCredits(ctx context.Context, user string, credits int) error {
	return c.credits(ctx, "decrement", user, credits)
}

func (c *Client) credits(ctx context.Context, name, user string, credits int) error {
	v := userTask(name, user)
	v.Set("credits", strconv.Itoa(credits))
	return c.call(ctx, EndpointLimit, v)
}

// GetBounces lists the bounced addresses of a subuser.
func (c *Client) GetBounces(ctx context.Context, user string) ([]SuppressionDTO, error) {
	return c.suppressions(ctx, c.userURL(EndpointBounces), userTask("get", user))
}

// GetSpamReports lists the addresses that reported a subuser's mail as spam.
func (c *Client) GetSpamReports(ctx context.Context, user string) ([]SuppressionDTO, error) {
	return c.suppressions(ctx, c.userURL(EndpointSpamReports), userTask("get", user))
}

// GetInvalidEmails lists the invalid addresses of a subuser, optionally
// limited to a single day.
func (c *Client) GetInvalidEmails(ctx context.Context, user string, date time.Time) ([]SuppressionDTO, error) {
	v := userTask("get", user)
	setDate(v, "date", date)
	return c.suppressions(ctx, EndpointInvalidEmails, v)
}

func (c *Client) suppressions(ctx context.Context, endpoint string, fields url.Values) ([]SuppressionDTO, error) {
	var result []SuppressionDTO
	if err := c.list(ctx, endpoint, fields, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBounce removes one address from the bounce list.
func (c *Client) DeleteBounce(ctx context.Context, user, email string) error {
	return c.deleteSuppression(ctx, c.userURL(EndpointBounces), user, email)
}

// DeleteSpamReport removes one address from the spam report list.
func (c *Client) DeleteSpamReport(ctx context.Context, user, email string) error {
	return c.deleteSuppression(ctx, c.userURL(EndpointSpamReports), user, email)
}

// DeleteInvalidEmail removes one address from the invalid email list.
func (c *Client) DeleteInvalidEmail(ctx context.Context, user, email string) error {
	return c.deleteSuppression(ctx, EndpointInvalidEmails, user, email)
}

func (c *Client) deleteSuppression(ctx context.Context, endpoint, user, email string) error {
	v := userTask("delete", user)
	v.Set("email", email)
	return c.call(ctx, endpoint, v)
}
