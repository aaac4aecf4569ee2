package email

import (
	"context"
	"errors"
)

// Sender is the interface that all email providers must implement.
// This abstraction allows swapping email providers (SMTP, Gmail, Resend, etc.)
// without changing business logic.
type Sender interface {
	// Send sends an email to the specified recipient.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	To       string // recipient email address
	Subject  string // email subject
	HTMLBody string // HTML email body
	TextBody string // plain-text fallback body
}

// Errors returned by the email package.
var (
	ErrUnknownProvider  = errors.New("email: unknown provider")
	ErrMissingRecipient = errors.New("email: recipient address is required")
)

// formatFrom renders a From header value.
func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return name + " <" + address + ">"
}
