package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean that accepts the encodings the v2 API mixes:
// true/false, 1/0, "1"/"0" and "true"/"false".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(s) {
	case "", "null", "0", "false", "no", "off":
		*f = false
		return nil
	case "1", "true", "yes", "on":
		*f = true
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	return fmt.Errorf("invalid boolean value %s", data)
}

// Count is an integer that also accepts a quoted number.
type Count int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %s", data)
	}
	*c = Count(n)
	return nil
}

// Payload is a response body whose shape depends on account state.
type Payload json.RawMessage

// Decode unmarshals the payload into v.
func (p Payload) Decode(v any) error {
	return json.Unmarshal(p, v)
}

// Map decodes the payload as a JSON object.
func (p Payload) Map() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// SubuserDTO is one entry of customer.profile.json task=get.
type SubuserDTO struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Active        Flag   `json:"active"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address       string `json:"address"`
	Address2      string `json:"address2"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
	WebsiteAccess Flag   `json:"website_access"`
}

// AppDTO is one entry of customer.apps.json task=getavailable.
type AppDTO struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Activated   Flag   `json:"activated"`
	Permission  Flag   `json:"permission"`
}

// AppSettingsDTO is the customer.apps.json task=getsettings reply.
type AppSettingsDTO struct {
	Settings json.RawMessage `json:"settings"`
}

// EventURLDTO is one entry of customer.eventposturl.json task=get.
type EventURLDTO struct {
	URL string `json:"url"`
}

// ParseSettingDTO is one inbound parse hostname configuration.
type ParseSettingDTO struct {
	Hostname  string `json:"hostname"`
	URL       string `json:"url"`
	SpamCheck Flag   `json:"spam_check"`
}

// StatDTO is one row of customer.stats.json.
type StatDTO struct {
	Date               string `json:"date"`
	Category           string `json:"category"`
	Requests           Count  `json:"requests"`
	Delivered          Count  `json:"delivered"`
	Bounces            Count  `json:"bounces"`
	RepeatBounces      Count  `json:"repeat_bounces"`
	Blocked            Count  `json:"blocked"`
	Clicks             Count  `json:"clicks"`
	UniqueClicks       Count  `json:"unique_clicks"`
	Opens              Count  `json:"opens"`
	UniqueOpens        Count  `json:"unique_opens"`
	SpamReports        Count  `json:"spamreports"`
	RepeatSpamReports  Count  `json:"repeat_spamreports"`
	InvalidEmail       Count  `json:"invalid_email"`
	Unsubscribes       Count  `json:"unsubscribes"`
	RepeatUnsubscribes Count  `json:"repeat_unsubscribes"`
	SpamDrop           Count  `json:"spam_drop"`
}

// SuppressionDTO is one entry of the bounce, spam report and invalid email
// lists. Spam reports carry no reason.
type SuppressionDTO struct {
	Email   string `json:"email"`
	Reason  string `json:"reason"`
	Status  string `json:"status"`
	Created string `json:"created"`
	IP      string `json:"ip"`
}
