package subuser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// whitelistEntries decodes the whitelist settings. The API sends an empty
// array instead of an object when the app was never configured, and a bare
// string when the list holds one entry.
func whitelistEntries(raw json.RawMessage) ([]string, error) {
	var settings map[string]json.RawMessage
	if err := json.Unmarshal(raw, &settings); err != nil {
		var empty []any
		if json.Unmarshal(raw, &empty) == nil {
			return nil, nil
		}
		return nil, err
	}

	list := settings["list"]
	if len(list) == 0 || string(list) == "null" {
		return nil, nil
	}
	var entries []string
	if err := json.Unmarshal(list, &entries); err == nil {
		return entries, nil
	}
	var single string
	if err := json.Unmarshal(list, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}

// WhitelistEmails returns the addresses and domains on a subuser's address
// whitelist. The result is empty, never nil, when nothing is whitelisted.
func (c *Client) WhitelistEmails(ctx context.Context, user string) ([]string, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	settings, err := c.apiClient.GetAppSettings(ctx, user, AppAddressWhitelist)
	if err != nil {
		return nil, wrapError(err)
	}

	list := []string{}
	if len(settings.Settings) == 0 {
		return list, nil
	}
	entries, err := whitelistEntries(settings.Settings)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decode whitelist settings: %w", err)}
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry) != "" {
			list = append(list, entry)
		}
	}
	return list, nil
}

// SetWhitelistEmails replaces the whitelist with emails.
func (c *Client) SetWhitelistEmails(ctx context.Context, user string, emails ...string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if len(emails) == 0 {
		return invalid("at least one address is required; use ClearWhitelist to empty the list")
	}
	for _, e := range emails {
		if strings.TrimSpace(e) == "" {
			return invalid("whitelist entries must not be blank")
		}
	}
	return c.setWhitelist(ctx, user, unique(emails))
}

// AddWhitelistEmail appends email to the whitelist, keeping existing
// entries. An address already present is not added twice.
func (c *Client) AddWhitelistEmail(ctx context.Context, user, email string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		return invalid("email is required")
	}
	existing, err := c.WhitelistEmails(ctx, user)
	if err != nil {
		return err
	}
	return c.setWhitelist(ctx, user, unique(append(existing, email)))
}

// ClearWhitelist removes every entry from the whitelist.
func (c *Client) ClearWhitelist(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return c.setWhitelist(ctx, user, []string{""})
}

func (c *Client) setWhitelist(ctx context.Context, user string, list []string) error {
	settings := url.Values{"list[]": list}
	return wrapError(c.apiClient.SetupApp(ctx, user, AppAddressWhitelist, settings))
}

// unique drops repeated entries and keeps the first occurrence of each.
func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
