package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wellvitas/booking-platform/internal/site"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

// EmailSender delivers one clinic notification email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a plain-text notification. The clinic inbox reads these
// between appointments, so there is no HTML variant.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SESClient is the slice of the SESv2 API the sender needs. Tests supply
// a fake; production passes sesv2.NewFromConfig.
type SESClient interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SenderConfig selects and configures the delivery provider.
type SenderConfig struct {
	Provider       string // "sendgrid", "ses" or "" for log-only delivery
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// NewSender builds the configured provider. A provider missing its
// credentials degrades to log-only delivery instead of failing startup;
// booking intake must keep working when the mail provider is down or
// unconfigured.
func NewSender(cfg SenderConfig, ses SESClient, logger *logging.Logger) EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = site.Wellvitas.Name
	}

	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey != "" {
			return &sendgridSender{
				client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
				from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
				logger: logger,
			}
		}
		logger.Warn("sendgrid selected without SENDGRID_API_KEY, notifications will only be logged")
	case "ses":
		if ses != nil {
			return &sesSender{
				client: ses,
				from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
				logger: logger,
			}
		}
		logger.Warn("ses selected without a client, notifications will only be logged")
	}
	return &stubSender{logger: logger}
}

type sendgridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.Logger
}

func (s *sendgridSender) Send(ctx context.Context, msg EmailMessage) error {
	email := mail.NewSingleEmailPlainText(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Body)
	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}
	s.logger.Info("booking email sent", "provider", "sendgrid", "to", msg.To)
	return nil
}

type sesSender struct {
	client SESClient
	from   string
	logger *logging.Logger
}

func (s *sesSender) Send(ctx context.Context, msg EmailMessage) error {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &sestypes.Destination{ToAddresses: []string{msg.To}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: ses send: %w", err)
	}
	s.logger.Info("booking email sent", "provider", "ses", "to", msg.To, "message_id", aws.ToString(out.MessageId))
	return nil
}

// stubSender logs the notification instead of delivering it.
type stubSender struct {
	logger *logging.Logger
}

func (s *stubSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email delivery disabled, notification logged only", "to", msg.To, "subject", msg.Subject)
	return nil
}
