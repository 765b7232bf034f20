package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"epicfails/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func TestNewSender(t *testing.T) {
	assert.IsType(t, LogSender{}, NewSender(&config.Config{}))

	s := NewSender(&config.Config{SMTPHost: "smtp.test", SMTPPort: 587, MailFrom: "noreply@epicfails.test"})
	smtpSender, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.Equal(t, "smtp.test", smtpSender.Host)
}

func captureSender(got **gomail.Msg) *SMTPSender {
	return &SMTPSender{
		Host: "smtp.test",
		Port: 2525,
		From: "noreply@epicfails.test",
		send: func(_ context.Context, _ *gomail.Client, msg *gomail.Msg) error {
			*got = msg
			return nil
		},
	}
}

func TestSMTPSender_Send(t *testing.T) {
	var msg *gomail.Msg
	s := captureSender(&msg)

	require.NoError(t, s.Send(context.Background(), "admin@epicfails.test", "Post reported", "details"))
	require.NotNil(t, msg)

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@epicfails.test"}, rcpts)
	assert.Equal(t, []string{"Post reported"}, msg.GetGenHeader(gomail.HeaderSubject))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Post reported")
	assert.Contains(t, buf.String(), "details")
}

func TestSMTPSender_EncodesNonASCIISubject(t *testing.T) {
	var msg *gomail.Msg
	s := captureSender(&msg)

	subject := "Publication signalée"
	require.NoError(t, s.Send(context.Background(), "admin@epicfails.test", subject, "Raisons : contenu choquant"))
	require.NotNil(t, msg)
	assert.Equal(t, []string{subject}, msg.GetGenHeader(gomail.HeaderSubject))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Subject: "+subject)
	assert.Contains(t, buf.String(), "=?UTF-8?")
}

func TestSMTPSender_Errors(t *testing.T) {
	s := &SMTPSender{
		Host: "smtp.test",
		Port: 25,
		From: "noreply@epicfails.test",
		send: func(context.Context, *gomail.Client, *gomail.Msg) error {
			return errors.New("connection refused")
		},
	}

	err := s.Send(context.Background(), "admin@epicfails.test", "x", "y")
	assert.ErrorContains(t, err, "connection refused")

	err = s.Send(context.Background(), "admin@epicfails.test\r\nBcc: x@y", "x", "y")
	assert.ErrorContains(t, err, "header injection")

	err = s.Send(context.Background(), "not-an-address", "x", "y")
	assert.ErrorContains(t, err, "invalid recipient")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "admin@epicfails.test", "x", "y"), context.Canceled)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), "a@b.test", "s", "b"))
}
