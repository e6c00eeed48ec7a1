// Package notifx sends transactional email through a pluggable provider.
package notifx

import (
	"context"
	"fmt"
)

// EmailSender sends a single email. Providers implement it.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

// Client validates messages, fills the default sender and renders templates
// before handing off to the provider.
type Client struct {
	provider  EmailSender
	from      string
	templates *TemplateRegistry
}

var _ EmailSender = (*Client)(nil)

// NewClient builds a client whose messages default to "name <address>".
func NewClient(provider EmailSender, fromAddress, fromName string) *Client {
	from := fromAddress
	if fromName != "" && fromAddress != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &Client{
		provider:  provider,
		from:      from,
		templates: NewTemplateRegistry(),
	}
}

func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if len(msg.To) == 0 {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	if msg.From == "" {
		msg.From = c.from
	}
	return c.provider.SendEmail(ctx, msg, opts...)
}

func (c *Client) RegisterTemplate(name, tmpl string) error {
	return c.templates.Register(name, tmpl)
}

// SendTemplatedEmail renders templateName with data into the HTML body.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data any, msg EmailMessage, opts ...Option) error {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return err
	}
	msg.HTMLBody = body
	return c.SendEmail(ctx, msg, opts...)
}
