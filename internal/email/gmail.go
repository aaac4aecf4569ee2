package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig holds the configuration for the Gmail email sender.
type GmailConfig struct {
	// CredentialsJSON is a service account credentials JSON with domain-wide
	// delegation. When empty, the OAuth2 refresh token fields are used.
	CredentialsJSON string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	// SenderAddress is the mailbox emails are sent from.
	SenderAddress string
	// SenderName is the display name for the sender.
	SenderName string
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service *gmail.Service
	from    string
}

// NewGmailSender creates a new GmailSender from a service account or, when
// no credentials JSON is configured, from an OAuth2 refresh token.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	var ts oauth2.TokenSource
	if cfg.CredentialsJSON != "" {
		jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
		}
		// Impersonate the sender mailbox
		jwtConfig.Subject = cfg.SenderAddress
		ts = jwtConfig.TokenSource(ctx)
	} else {
		if cfg.RefreshToken == "" {
			return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		ts = oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service: svc,
		from:    formatFrom(cfg.SenderName, cfg.SenderAddress),
	}, nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(buildMIME(g.from, msg))),
	}

	_, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}

	return nil
}

// buildMIME renders msg as a raw RFC 5322 message.
func buildMIME(from string, msg Message) string {
	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
	}

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		boundary := "boundary_mailrelay_email"
		return strings.Join(append(headers,
			"Content-Type: multipart/alternative; boundary="+boundary,
			"",
			"--"+boundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.TextBody,
			"",
			"--"+boundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			msg.HTMLBody,
			"",
			"--"+boundary+"--",
		), "\r\n")
	case msg.HTMLBody != "":
		return strings.Join(append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
		), "\r\n")
	default:
		return strings.Join(append(headers,
			"Content-Type: text/plain; charset=UTF-8",
			"",
			msg.TextBody,
		), "\r\n")
	}
}
