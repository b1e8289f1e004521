// Package notification delivers templated email to account holders. Delivery
// is best-effort everywhere: callers log failures and carry on.
package notification

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogMailer writes outgoing mail to the logger instead of delivering it.
// Used in development when no sender address is configured.
type LogMailer struct {
	logger *logrus.Logger
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    htmlBody,
	}).Info("Email delivery skipped (no sender configured)")
	return nil
}
