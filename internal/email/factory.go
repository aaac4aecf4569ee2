package email

import (
	"context"
	"fmt"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/logger"
)

// Supported providers.
const (
	ProviderNoop   = "noop"
	ProviderSMTP   = "smtp"
	ProviderGmail  = "gmail"
	ProviderResend = "resend"
)

// NewSender creates the Sender selected by cfg.Provider.
func NewSender(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (Sender, error) {
	var (
		sender Sender
		err    error
	)

	switch cfg.Provider {
	case ProviderNoop, "":
		sender = NewNoopSender(formatFrom(cfg.FromName, cfg.From), log)
	case ProviderSMTP:
		sender, err = NewSMTPSender(SMTPConfig{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			Username:      cfg.SMTP.Username,
			Password:      cfg.SMTP.Password,
			SenderAddress: cfg.From,
			SenderName:    cfg.FromName,
		})
	case ProviderGmail:
		sender, err = NewGmailSender(ctx, GmailConfig{
			CredentialsJSON: cfg.Gmail.CredentialsJSON,
			ClientID:        cfg.Gmail.ClientID,
			ClientSecret:    cfg.Gmail.ClientSecret,
			RefreshToken:    cfg.Gmail.RefreshToken,
			SenderAddress:   cfg.From,
			SenderName:      cfg.FromName,
		})
	case ProviderResend:
		sender, err = NewResendSender(ResendConfig{
			APIKey:        cfg.Resend.APIKey,
			SenderAddress: cfg.From,
			SenderName:    cfg.FromName,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	if err != nil {
		return nil, err
	}
	return sender, nil
}

// NewComposerFromConfig creates the configured Sender wrapped in a Composer.
func NewComposerFromConfig(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (*Composer, error) {
	sender, err := NewSender(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewComposer(sender, Envelope{To: cfg.To, Subject: cfg.Subject}), nil
}
