package email

import (
	"context"

	"github.com/mailrelay/mailrelay/internal/source"
)

// Envelope holds the addressing shared by every composed message.
type Envelope struct {
	To      string
	Subject string
}

// Composer turns a message body into a Message addressed by its Envelope
// and hands it to a Sender.
type Composer struct {
	sender   Sender
	envelope Envelope
}

// NewComposer creates a Composer.
func NewComposer(sender Sender, envelope Envelope) *Composer {
	return &Composer{sender: sender, envelope: envelope}
}

// SendEmail composes a plain-text message with body and sends it.
func (c *Composer) SendEmail(ctx context.Context, body string) error {
	if c.envelope.To == "" {
		return ErrMissingRecipient
	}

	return c.sender.Send(ctx, Message{
		To:       c.envelope.To,
		Subject:  c.envelope.Subject,
		TextBody: body,
	})
}

// SendMessage retrieves the body from src and sends it. Source errors are
// returned as is and nothing is sent.
func (c *Composer) SendMessage(ctx context.Context, src source.Source) error {
	body, err := src.MessageBody(ctx)
	if err != nil {
		return err
	}
	return c.SendEmail(ctx, body)
}
