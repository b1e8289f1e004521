package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sirupsen/logrus"
)

// SESMailer delivers mail through Amazon SES.
type SESMailer struct {
	client *sesv2.Client
	sender string
	logger *logrus.Logger
}

func NewSESMailer(client *sesv2.Client, sender string, logger *logrus.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		sender: sender,
		logger: logger,
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		m.logger.WithError(err).WithField("to", to).Error("Failed to send email via SES")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
