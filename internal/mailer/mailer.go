// Package mailer is the narrow contract to the outbound mail relay.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendGridMailer relays messages through the SendGrid API.
type SendGridMailer struct {
	apiKey string
	sender string
}

func NewSendGridMailer(apiKey, sender string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, sender: sender}
}

func (m *SendGridMailer) Send(_ context.Context, to, subject, body string) error {
	from := mail.NewEmail("Sona Store", m.sender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer is the fallback when no relay is configured; messages go to the
// structured log instead of the wire.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	slog.Info("mail relay disabled, logging message", "to", to, "subject", subject, "body", body)
	return nil
}
