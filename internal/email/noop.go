package email

import (
	"context"

	"github.com/mailrelay/mailrelay/internal/logger"
)

// NoopSender composes messages and logs them without delivering anything.
type NoopSender struct {
	from string
	log  *logger.Logger
}

// NewNoopSender creates a NoopSender.
func NewNoopSender(from string, log *logger.Logger) *NoopSender {
	return &NoopSender{from: from, log: log.WithComponent("email_noop")}
}

// Send logs the message and returns nil.
func (n *NoopSender) Send(_ context.Context, msg Message) error {
	n.log.Info().
		Str("from", n.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("text_length", len(msg.TextBody)).
		Int("html_length", len(msg.HTMLBody)).
		Msg("email composed, delivery disabled")
	return nil
}
