package email

import (
	"context"
	"fmt"

	"gopkg.in/mail.v2"
)

// SMTPConfig holds the configuration for the SMTP email sender.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	SenderAddress string
	SenderName    string
}

// dialer is the part of mail.Dialer used by SMTPSender.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender implements Sender over an SMTP relay.
type SMTPSender struct {
	dialer        dialer
	senderAddress string
	senderName    string
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}

	return &SMTPSender{
		dialer:        mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}, nil
}

// Send sends an email through the SMTP relay.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.senderAddress, s.senderName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}
	return m
}
