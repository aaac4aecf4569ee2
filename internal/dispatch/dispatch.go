// Package dispatch pulls a body from a message source and hands it to a
// send capability.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/source"
)

// StatusPrefix starts every status string returned by Dispatch.
const StatusPrefix = "Send Email With Body: "

// BodySender delivers a message body. email.Composer implements it.
type BodySender interface {
	SendEmail(ctx context.Context, body string) error
}

// Dispatch retrieves the body from src, passes it to sender and returns
// StatusPrefix followed by the body.
//
// Errors from src and sender are returned unmodified. The sender is not
// invoked when src fails or yields an empty body.
func Dispatch(ctx context.Context, sender BodySender, src source.Source) (string, error) {
	body, err := src.MessageBody(ctx)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", source.ErrEmptyBody
	}

	if err := sender.SendEmail(ctx, body); err != nil {
		return "", err
	}
	return StatusPrefix + body, nil
}

// Service runs dispatches against a fixed sender and logs each one.
type Service struct {
	sender BodySender
	log    *logger.Logger
}

// NewService creates a new Service.
func NewService(sender BodySender, log *logger.Logger) *Service {
	return &Service{
		sender: sender,
		log:    log.WithComponent("dispatch"),
	}
}

// SendMessage dispatches the body of src and returns the status string.
func (s *Service) SendMessage(ctx context.Context, src source.Source) (string, error) {
	dispatchID := uuid.New().String()
	start := time.Now()

	status, err := Dispatch(ctx, s.sender, src)

	bodyLen := 0
	if err == nil {
		bodyLen = len(status) - len(StatusPrefix)
	}
	s.log.Dispatch(dispatchID, describe(src), bodyLen, time.Since(start), err)

	return status, err
}

func describe(src source.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
