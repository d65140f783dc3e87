package fiscal

import "regexp"

var phonePattern = regexp.MustCompile(`^\+?\d+$`)

// Client is the buyer a receipt is sent to. At least one of email and phone
// must be set.
type Client struct {
	email string
	phone string
}

// Email returns the buyer email.
func (c *Client) Email() string {
	return c.email
}

// SetEmail sets the buyer email, at most 64 characters.
func (c *Client) SetEmail(email string) error {
	if err := checkLength("client email", email, 64); err != nil {
		return err
	}
	c.email = email
	return nil
}

// Phone returns the buyer phone.
func (c *Client) Phone() string {
	return c.phone
}

// SetPhone accepts digits with an optional leading plus.
func (c *Client) SetPhone(phone string) error {
	if err := checkLength("client phone", phone, 64); err != nil {
		return err
	}
	if !phonePattern.MatchString(phone) {
		return invalid("client phone", "must be digits with an optional leading +")
	}
	c.phone = phone
	return nil
}

// Serialize returns the buyer wire fields.
func (c *Client) Serialize() (Fields, error) {
	r := requirements{entity: "client"}
	r.need(c.email != "" || c.phone != "", "email|phone")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	if c.email != "" {
		f.set("email", c.email)
	}
	if c.phone != "" {
		f.set("phone", c.phone)
	}
	return f, nil
}
