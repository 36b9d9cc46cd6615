// Package mail sends reminder messages over authenticated SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/config"
)

// TransportError wraps a failure to build or deliver a message
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SMTPMailer sends plain-text mail through one SMTP relay using STARTTLS and
// PLAIN auth with the configured address as the username.
type SMTPMailer struct {
	host    string
	port    int
	timeout time.Duration
}

// NewSMTPMailer creates a mailer for the relay in cfg
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		timeout: cfg.Timeout,
	}
}

// Send delivers one message from settings.Email to the recipient
func (m *SMTPMailer) Send(ctx context.Context, settings entities.MailSettings, to, subject, body string) error {
	if !settings.Configured() {
		return entities.ErrMailNotConfigured
	}

	msg, err := m.compose(settings.Email, to, subject, body)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(settings.Email),
		gomail.WithPassword(settings.AppPassword),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if m.timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.timeout))
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return &TransportError{Op: "connect", Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

func (m *SMTPMailer) compose(from, to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, &TransportError{Op: "compose", Err: fmt.Errorf("invalid sender: %w", err)}
	}
	if err := msg.To(to); err != nil {
		return nil, &TransportError{Op: "compose", Err: fmt.Errorf("invalid recipient: %w", err)}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}
