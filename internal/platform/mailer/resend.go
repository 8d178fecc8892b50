// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
)

// ResendMailer implements digest.EmailSender using the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

// NewResendMailer creates a mailer sending from the given address.
func NewResendMailer(apiKey, from string, logger *slog.Logger) *ResendMailer {
	if apiKey == "" {
		panic("resend API key cannot be empty")
	}
	if from == "" {
		panic("from address cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With(slog.String("component", "resend_mailer")),
	}
}

// Ensure ResendMailer implements digest.EmailSender
var _ digest.EmailSender = (*ResendMailer)(nil)

// Send implements digest.EmailSender.Send.
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Debug("email sent",
		slog.String("message_id", sent.Id),
		slog.String("subject", subject))
	return nil
}
