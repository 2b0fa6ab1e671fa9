// internal/services/messaging.go
package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/config"
)

// Mailer delivers one e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// Texter delivers one SMS.
type Texter interface {
	Send(ctx context.Context, phone, message string) error
}

// SESAPI is the part of the SES client the mailer uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the part of the SNS client the texter uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESMailer struct {
	client SESAPI
	from   string
}

func NewSESMailer(client SESAPI, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(textBody)},
				Html: &sestypes.Content{Data: aws.String(htmlBody)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

type SNSTexter struct {
	client   SNSAPI
	senderID string
}

func NewSNSTexter(client SNSAPI, senderID string) *SNSTexter {
	return &SNSTexter{client: client, senderID: senderID}
}

func (t *SNSTexter) Send(ctx context.Context, phone, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	}
	if t.senderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(t.senderID)},
		}
	}
	if _, err := t.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// LogMailer and LogTexter stand in when delivery is disabled.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _, _ string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery disabled, message logged")
	return nil
}

type LogTexter struct{}

func (LogTexter) Send(_ context.Context, phone, message string) error {
	logrus.WithFields(logrus.Fields{"phone": phone, "message": message}).Info("SMS delivery disabled, message logged")
	return nil
}

// NewMessengers builds the mailer and texter from configuration. Disabled
// channels fall back to logging.
func NewMessengers(ctx context.Context, cfg *config.Config) (Mailer, Texter, error) {
	var mailer Mailer = LogMailer{}
	var texter Texter = LogTexter{}
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return mailer, texter, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Email.Enabled {
		from := cfg.Email.FromEmail
		if cfg.Email.FromName != "" {
			from = fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)
		}
		mailer = NewSESMailer(ses.NewFromConfig(awsCfg), from)
	}
	if cfg.SMS.Enabled {
		texter = NewSNSTexter(sns.NewFromConfig(awsCfg), cfg.SMS.SenderID)
	}
	return mailer, texter, nil
}
