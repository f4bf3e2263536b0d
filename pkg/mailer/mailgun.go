package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// ErrMailgunNotConfigured is returned by Send when domain or key is missing.
var ErrMailgunNotConfigured = errors.New("mailgun not configured")

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through one Mailgun domain.
type Mailgun struct {
	Sender  string
	Timeout time.Duration
	client  *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	m := &Mailgun{Sender: sender, Timeout: 10 * time.Second}
	if domain != "" && apiKey != "" {
		m.client = mg.NewMailgun(domain, apiKey)
	}
	return m
}

// WithAPIBase points the client at another endpoint, such as mg.APIBaseEU.
func (m *Mailgun) WithAPIBase(base string) *Mailgun {
	if m.client != nil && base != "" {
		m.client.SetAPIBase(base)
	}
	return m
}

// Send delivers a text email, with html as the alternative body when set.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.client == nil {
		return ErrMailgunNotConfigured
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

var _ Sender = (*Mailgun)(nil)
