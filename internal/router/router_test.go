package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/dispatch"
	"github.com/mailrelay/mailrelay/internal/handler"
	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/middleware"
	"github.com/mailrelay/mailrelay/internal/source"
)

type discardSender struct{}

func (discardSender) SendEmail(context.Context, string) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.Nop()
	h := handler.New(nil, log, &source.Factory{}, dispatch.NewService(discardSender{}, log))
	srv := httptest.NewServer(New(h, middleware.New(nil, log, &config.Config{})))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_SendMessage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/messages/send", "application/json",
		strings.NewReader(`{"source":"static","ref":"Hello world!"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/messages/send")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
