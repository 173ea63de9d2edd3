package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sendgrid/rest"
)

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridMailer struct {
	fromEmail string
	fromName  string
	client    sender
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    sendgrid.NewSendClient(apiKey),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, plainText, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plainText, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
