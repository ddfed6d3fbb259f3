package notify

import (
	"context"
	"log/slog"
)

// Mailer sends a plain-text message to a user. The production deployment
// has no mail provider; ConsoleMailer is the only implementation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleMailer is a development stub that logs instead of sending.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("sending email", "to", to, "subject", subject, "body", body)
	return nil
}
