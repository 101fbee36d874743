package api

import (
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the YYYY-MM-DD format the API expects for dates.
const DateLayout = "2006-01-02"

// NewSubuserRequest holds the fields of customer.add.json.
type NewSubuserRequest struct {
	Username   string
	Password   string
	Email      string
	FirstName  string
	LastName   string
	Address    string
	City       string
	State      string
	Zip        string
	Country    string
	Phone      string
	Website    string
	Company    string
	MailDomain string
}

func (r NewSubuserRequest) values() url.Values {
	v := url.Values{}
	v.Set("username", r.Username)
	v.Set("password", r.Password)
	v.Set("confirm_password", r.Password)
	v.Set("email", r.Email)
	setOptional(v, "first_name", r.FirstName)
	setOptional(v, "last_name", r.LastName)
	setOptional(v, "address", r.Address)
	setOptional(v, "city", r.City)
	setOptional(v, "state", r.State)
	setOptional(v, "zip", r.Zip)
	setOptional(v, "country", r.Country)
	setOptional(v, "phone", r.Phone)
	setOptional(v, "website", r.Website)
	setOptional(v, "company", r.Company)
	setOptional(v, "mail_domain", r.MailDomain)
	return v
}

// ProfileRequest holds profile fields to change. Empty fields are left as they are.
type ProfileRequest struct {
	FirstName  string
	LastName   string
	Address    string
	City       string
	State      string
	Zip        string
	Country    string
	Phone      string
	Website    string
	Company    string
	MailDomain string
}

// Empty reports whether no field is set.
func (r ProfileRequest) Empty() bool {
	return r == ProfileRequest{}
}

func (r ProfileRequest) values() url.Values {
	v := url.Values{}
	setOptional(v, "first_name", r.FirstName)
	setOptional(v, "last_name", r.LastName)
	setOptional(v, "address", r.Address)
	setOptional(v, "city", r.City)
	setOptional(v, "state", r.State)
	setOptional(v, "zip", r.Zip)
	setOptional(v, "country", r.Country)
	setOptional(v, "phone", r.Phone)
	setOptional(v, "website", r.Website)
	setOptional(v, "company", r.Company)
	setOptional(v, "mail_domain", r.MailDomain)
	return v
}

// StatsRequest narrows a customer.stats.json query.
type StatsRequest struct {
	Days      int
	StartDate time.Time
	EndDate   time.Time
}

func (r StatsRequest) apply(v url.Values) {
	if r.Days > 0 {
		v.Set("days", strconv.Itoa(r.Days))
	}
	setDate(v, "start_date", r.StartDate)
	setDate(v, "end_date", r.EndDate)
}

// RecurringResetRequest holds the fields of customer.limit.json task=recurring.
type RecurringResetRequest struct {
	Credits        int
	Period         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCredits int
}

func (r RecurringResetRequest) apply(v url.Values) {
	v.Set("credits", strconv.Itoa(r.Credits))
	setOptional(v, "period", r.Period)
	setDate(v, "startdate", r.StartDate)
	setDate(v, "enddate", r.EndDate)
	if r.InitialCredits > 0 {
		v.Set("initial_credits", strconv.Itoa(r.InitialCredits))
	}
}

func setOptional(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setDate(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, t.Format(DateLayout))
	}
}
