// internal/services/messaging_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/franchise-backoffice/internal/config"
)

func TestSESMailerBuildsMessage(t *testing.T) {
	var got *ses.SendEmailInput
	client := &MockSESService{SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		got = params
		return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
	}}

	mailer := NewSESMailer(client, "Back Office <noreply@example.test>")
	require.NoError(t, mailer.Send(context.Background(), "ops@example.test", "Hello", "<p>hi</p>", "hi"))

	require.NotNil(t, got)
	assert.Equal(t, []string{"ops@example.test"}, got.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(got.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(got.Message.Body.Html.Data))
	assert.Equal(t, "Back Office <noreply@example.test>", aws.ToString(got.Source))
}

func TestSESMailerWrapsErrors(t *testing.T) {
	client := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, errors.New("message rejected")
	}}

	err := NewSESMailer(client, "noreply@example.test").Send(context.Background(), "a@example.test", "s", "h", "t")
	assert.ErrorContains(t, err, "ses send")
}

func TestSNSTexterSenderID(t *testing.T) {
	var got *sns.PublishInput
	client := &MockSNSService{PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
		got = params
		return &sns.PublishOutput{}, nil
	}}

	require.NoError(t, NewSNSTexter(client, "FRANCHISE").Send(context.Background(), "+15550100", "Ticket escalated"))
	assert.Equal(t, "+15550100", aws.ToString(got.PhoneNumber))
	assert.Equal(t, "FRANCHISE", aws.ToString(got.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))

	require.NoError(t, NewSNSTexter(client, "").Send(context.Background(), "+15550100", "Ticket escalated"))
	assert.Empty(t, got.MessageAttributes)
}

func TestNewMessengersFallsBackToLogging(t *testing.T) {
	mailer, texter, err := NewMessengers(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, LogMailer{}, mailer)
	assert.IsType(t, LogTexter{}, texter)
}
