package subuser

import (
	"context"
	"net/url"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// App names used by this package.
const (
	AppEventNotify      = "eventnotify"
	AppAddressWhitelist = "addresswhitelist"
)

// eventTypes are the event notification checkboxes. Batching is left as is.
var eventTypes = []string{
	"processed", "dropped", "deferred", "delivered", "bounce",
	"click", "open", "unsubscribe", "spamreport",
}

// Payload is a JSON reply whose shape depends on the app or account.
type Payload = api.Payload

// App is an app available to a subuser.
type App struct {
	Name        string
	Title       string
	Description string
	Activated   bool
	Permission  bool
}

// ParseSetting is an inbound parse hostname configuration.
type ParseSetting struct {
	Hostname  string
	URL       string
	SpamCheck bool
}

// Apps lists the apps available to a subuser and whether they are active.
func (c *Client) Apps(ctx context.Context, user string) ([]App, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetApps(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	apps := make([]App, 0, len(dtos))
	for _, d := range dtos {
		apps = append(apps, App{
			Name:        d.Name,
			Title:       d.Title,
			Description: d.Description,
			Activated:   bool(d.Activated),
			Permission:  bool(d.Permission),
		})
	}
	return apps, nil
}

// AppSettings returns the settings object of an app.
func (c *Client) AppSettings(ctx context.Context, user, app string) (Payload, error) {
	if err := requireApp(user, app); err != nil {
		return nil, err
	}
	settings, err := c.apiClient.GetAppSettings(ctx, user, app)
	if err != nil {
		return nil, wrapError(err)
	}
	return Payload(settings.Settings), nil
}

// ActivateApp enables an app for a subuser.
func (c *Client) ActivateApp(ctx context.Context, user, app string) error {
	if err := requireApp(user, app); err != nil {
		return err
	}
	return wrapError(c.apiClient.ActivateApp(ctx, user, app))
}

// DeactivateApp disables an app for a subuser.
func (c *Client) DeactivateApp(ctx context.Context, user, app string) error {
	if err := requireApp(user, app); err != nil {
		return err
	}
	return wrapError(c.apiClient.DeactivateApp(ctx, user, app))
}

// EventURL returns the event notification URL of a subuser, or "" when none
// is set.
func (c *Client) EventURL(ctx context.Context, user string) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	u, err := c.apiClient.GetEventURL(ctx, user)
	return u, wrapError(err)
}

// SetEventURL sets the event notification URL of a subuser.
func (c *Client) SetEventURL(ctx context.Context, user, eventURL string) error {
	if err := requireEventURL(user, eventURL); err != nil {
		return err
	}
	return wrapError(c.apiClient.SetEventURL(ctx, user, eventURL))
}

// DeleteEventURL removes the event notification URL of a subuser.
func (c *Client) DeleteEventURL(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.DeleteEventURL(ctx, user))
}

// EnableEventNotifications turns on every event type of the event
// notification app and points it at eventURL.
func (c *Client) EnableEventNotifications(ctx context.Context, user, eventURL string) error {
	if err := requireEventURL(user, eventURL); err != nil {
		return err
	}
	return wrapError(c.apiClient.SetupApp(ctx, user, AppEventNotify, eventSettings(eventURL, "")))
}

// UpgradeEventNotifications does what EnableEventNotifications does and
// switches the webhook to version 3.
func (c *Client) UpgradeEventNotifications(ctx context.Context, user, eventURL string) error {
	if err := requireEventURL(user, eventURL); err != nil {
		return err
	}
	return wrapError(c.apiClient.SetupApp(ctx, user, AppEventNotify, eventSettings(eventURL, "3")))
}

func eventSettings(eventURL, version string) url.Values {
	v := url.Values{"url": {eventURL}}
	for _, name := range eventTypes {
		v.Set(name, "1")
	}
	if version != "" {
		v.Set("version", version)
	}
	return v
}

// ParseSettings returns the inbound parse configuration of a subuser.
func (c *Client) ParseSettings(ctx context.Context, user string) ([]ParseSetting, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	dtos, err := c.apiClient.GetParseSettings(ctx, user)
	if err != nil {
		return nil, wrapError(err)
	}
	settings := make([]ParseSetting, 0, len(dtos))
	for _, d := range dtos {
		settings = append(settings, ParseSetting{
			Hostname:  d.Hostname,
			URL:       d.URL,
			SpamCheck: bool(d.SpamCheck),
		})
	}
	return settings, nil
}

func requireApp(user, app string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if app == "" {
		return invalid("app name is required")
	}
	return nil
}

func requireEventURL(user, eventURL string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	u, err := url.Parse(eventURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid("event URL must be an absolute http(s) URL")
	}
	return nil
}
