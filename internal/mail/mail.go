// Package mail sends outbound notification mails.
package mail

import (
	"context"
	"fmt"
	"strings"

	"epicfails/internal/config"
	"epicfails/internal/middleware"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender returns an SMTP sender when SMTP is configured and a LogSender otherwise.
func NewSender(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return LogSender{}
	}
	return &SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// send is swapped in tests.
	send func(ctx context.Context, client *gomail.Client, msg *gomail.Msg) error
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("mail: header injection in recipient or subject")
	}

	msg, err := s.message(to, subject, body)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	send := s.send
	if send == nil {
		send = func(ctx context.Context, c *gomail.Client, m *gomail.Msg) error {
			return c.DialAndSendWithContext(ctx, m)
		}
	}
	if err := send(ctx, client, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) message(to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", s.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func (s *SMTPSender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}
	client, err := gomail.NewClient(s.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: smtp client: %w", err)
	}
	return client, nil
}

// LogSender writes mails to the structured log instead of sending them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	middleware.Logger.InfoContext(ctx, "Mail not sent, SMTP disabled",
		"to", to,
		"subject", subject,
		"body_bytes", len(body),
	)
	return nil
}
