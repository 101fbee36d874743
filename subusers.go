package subuser

import (
	"context"

	"github.com/stechstudio/sendgrid-subuser-go/internal/api"
)

// NewSubuser holds the fields of a new subuser. Username, Password and Email
// are required; empty optional fields are not sent.
type NewSubuser = api.NewSubuserRequest

// Profile holds the profile fields to change. Empty fields keep their
// current value.
type Profile = api.ProfileRequest

// Subuser is a subuser account as listed by the API.
type Subuser struct {
	Username      string
	Email         string
	Active        bool
	FirstName     string
	LastName      string
	Address       string
	Address2      string
	City          string
	State         string
	Zip           string
	Country       string
	Phone         string
	Website       string
	WebsiteAccess bool
}

func subuserFromDTO(d api.SubuserDTO) Subuser {
	return Subuser{
		Username:      d.Username,
		Email:         d.Email,
		Active:        bool(d.Active),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Address:       d.Address,
		Address2:      d.Address2,
		City:          d.City,
		State:         d.State,
		Zip:           d.Zip,
		Country:       d.Country,
		Phone:         d.Phone,
		Website:       d.Website,
		WebsiteAccess: bool(d.WebsiteAccess),
	}
}

// Subusers lists the subusers of the account.
func (c *Client) Subusers(ctx context.Context) ([]Subuser, error) {
	dtos, err := c.apiClient.GetSubusers(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	users := make([]Subuser, 0, len(dtos))
	for _, d := range dtos {
		users = append(users, subuserFromDTO(d))
	}
	return users, nil
}

// SubuserExists reports whether the account has a subuser with the given
// username.
func (c *Client) SubuserExists(ctx context.Context, username string) (bool, error) {
	if err := requireUser(username); err != nil {
		return false, err
	}
	users, err := c.Subusers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// CreateSubuser creates a subuser.
func (c *Client) CreateSubuser(ctx context.Context, s NewSubuser) error {
	var problems []string
	if s.Username == "" {
		problems = append(problems, "username is required")
	}
	if s.Password == "" {
		problems = append(problems, "password is required")
	}
	if s.Email == "" {
		problems = append(problems, "email is required")
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}
	return wrapError(c.apiClient.AddSubuser(ctx, s))
}

// EnableSubuser allows a subuser to send mail.
func (c *Client) EnableSubuser(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.EnableSubuser(ctx, user))
}

// DisableSubuser stops a subuser from sending mail.
func (c *Client) DisableSubuser(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.DisableSubuser(ctx, user))
}

// EnableSiteAccess allows a subuser to log in to the SendGrid website.
func (c *Client) EnableSiteAccess(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.EnableWebsiteAccess(ctx, user))
}

// DisableSiteAccess blocks a subuser from the SendGrid website.
func (c *Client) DisableSiteAccess(ctx context.Context, user string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return wrapError(c.apiClient.DisableWebsiteAccess(ctx, user))
}

// UpdateProfile changes the profile fields set in p.
func (c *Client) UpdateProfile(ctx context.Context, user string, p Profile) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if p.Empty() {
		return invalid("profile has no fields to update")
	}
	return wrapError(c.apiClient.UpdateProfile(ctx, user, p))
}

// UpdateUsername renames a subuser.
func (c *Client) UpdateUsername(ctx context.Context, user, username string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if username == "" {
		return invalid("new username is required")
	}
	return wrapError(c.apiClient.SetUsername(ctx, user, username))
}

// UpdatePassword changes a subuser's password.
func (c *Client) UpdatePassword(ctx context.Context, user, password string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if password == "" {
		return invalid("password is required")
	}
	return wrapError(c.apiClient.SetPassword(ctx, user, password))
}

// UpdateEmail changes a subuser's contact address.
func (c *Client) UpdateEmail(ctx context.Context, user, email string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if email == "" {
		return invalid("email is required")
	}
	return wrapError(c.apiClient.SetEmail(ctx, user, email))
}
