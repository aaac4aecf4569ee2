package email

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mail.v2"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/logger"
)

type fakeDialer struct {
	sent []*mail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*mail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestNoopSender_LogsWithoutDelivering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewNoopSender("system@example.com", logger.NewWithWriter("info", "json", &buf))

	err := s.Send(context.Background(), Message{To: "admin@example.com", Subject: "Log file", TextBody: "hi"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "delivery disabled")
	assert.Contains(t, buf.String(), "admin@example.com")
}

func TestSMTPSender_Send(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, senderAddress: "system@example.com", senderName: "Relay"}

	err := s.Send(context.Background(), Message{To: "admin@example.com", Subject: "Log file", TextBody: "hi"})
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"admin@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Log file"}, d.sent[0].GetHeader("Subject"))
	assert.Len(t, d.sent[0].GetHeader("From"), 1)
	assert.Contains(t, d.sent[0].GetHeader("From")[0], "system@example.com")
}

func TestSMTPSender_SendError(t *testing.T) {
	t.Parallel()

	cause := errors.New("535 authentication failed")
	s := &SMTPSender{dialer: &fakeDialer{err: cause}, senderAddress: "system@example.com"}

	err := s.Send(context.Background(), Message{To: "admin@example.com"})
	require.ErrorIs(t, err, cause)
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, senderAddress: "system@example.com"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Send(ctx, Message{To: "admin@example.com"}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestBuildMIME(t *testing.T) {
	t.Parallel()

	plain := buildMIME("Relay <system@example.com>", Message{To: "a@example.com", Subject: "s", TextBody: "text"})
	assert.True(t, strings.HasPrefix(plain, "From: Relay <system@example.com>\r\nTo: a@example.com\r\n"))
	assert.Contains(t, plain, "Content-Type: text/plain; charset=UTF-8\r\n\r\ntext")

	both := buildMIME("system@example.com", Message{To: "a@example.com", TextBody: "text", HTMLBody: "<p>html</p>"})
	assert.Contains(t, both, "multipart/alternative")
	assert.Contains(t, both, "<p>html</p>")
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	log := logger.Nop()
	base := config.EmailConfig{From: "system@example.com", To: "admin@example.com"}

	noop := base
	noop.Provider = ProviderNoop
	s, err := NewSender(context.Background(), noop, log)
	require.NoError(t, err)
	assert.IsType(t, &NoopSender{}, s)

	smtp := base
	smtp.Provider = ProviderSMTP
	smtp.SMTP = config.SMTPEmailConfig{Host: "mail.example.com", Port: 587}
	s, err = NewSender(context.Background(), smtp, log)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	rs := base
	rs.Provider = ProviderResend
	rs.Resend.APIKey = "re_test"
	s, err = NewSender(context.Background(), rs, log)
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)
}

func TestNewSender_Errors(t *testing.T) {
	t.Parallel()

	log := logger.Nop()

	_, err := NewSender(context.Background(), config.EmailConfig{Provider: "pigeon"}, log)
	require.ErrorIs(t, err, ErrUnknownProvider)

	_, err = NewSender(context.Background(), config.EmailConfig{Provider: ProviderResend, From: "system@example.com"}, log)
	require.Error(t, err)

	_, err = NewSender(context.Background(), config.EmailConfig{Provider: ProviderGmail, From: "system@example.com"}, log)
	require.Error(t, err)

	_, err = NewSender(context.Background(), config.EmailConfig{Provider: ProviderSMTP, From: "system@example.com"}, log)
	require.Error(t, err)
}
