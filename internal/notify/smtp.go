package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"examauth/internal/config"
	"examauth/internal/logging"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Mailer renders messages with a Composer and hands them to a Sender.
type Mailer struct {
	composer *Composer
	sender   Sender
}

var _ Notifier = (*Mailer)(nil)

// NewMailer creates a Notifier.
func NewMailer(composer *Composer, sender Sender) *Mailer {
	return &Mailer{composer: composer, sender: sender}
}

func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	msg, err := m.composer.Verification(to, token)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	msg, err := m.composer.PasswordReset(to, token)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from mail settings.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseSSL
	return &SMTPSender{dialer: d, from: cfg.Sender}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no SMTP server is configured.
type LogSender struct {
	log logging.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.log.Info(ctx, "email not sent, SMTP disabled",
		"to", msg.To,
		"subject", msg.Subject,
		"link", msg.Link,
	)
	return nil
}
