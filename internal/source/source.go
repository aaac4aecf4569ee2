// Package source provides the interchangeable message sources that produce
// the body of a dispatched email.
package source

import (
	"context"
	"errors"
)

// Source produces the body of an email message.
// Implementations are configured at construction and hold no mutable state.
type Source interface {
	// MessageBody returns the message body.
	MessageBody(ctx context.Context) (string, error)
}

// Errors reported by message sources and the dispatcher.
var (
	ErrFileNotFound      = errors.New("source: file not found")
	ErrConnectionFailure = errors.New("source: connection failure")
	ErrEmptyBody         = errors.New("source: empty message body")
	ErrMessageNotFound   = errors.New("source: message not found")
	ErrUnknownKind       = errors.New("source: unknown source kind")
	ErrKindDisabled      = errors.New("source: source kind disabled")
)

// Func adapts an ordinary function to the Source interface.
type Func func(ctx context.Context) (string, error)

// MessageBody calls f(ctx).
func (f Func) MessageBody(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static is a Source that always returns the same body.
type Static string

// MessageBody returns the static body.
func (s Static) MessageBody(context.Context) (string, error) {
	return string(s), nil
}

// String names the source for logs. The body is left out.
func (s Static) String() string {
	return "static"
}
