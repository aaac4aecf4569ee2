package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/email"
	"github.com/mailrelay/mailrelay/internal/handler"
	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/middleware"
	"github.com/mailrelay/mailrelay/internal/router"
	"github.com/mailrelay/mailrelay/internal/source"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Email = config.EmailConfig{
		Provider: email.ProviderNoop,
		From:     "system@example.com",
		To:       "admin@example.com",
		Subject:  "Log file",
	}
	cfg.Source.ConnectionString = "server=myserver;database=data"
	return cfg
}

func TestApp_SendWithNoopProvider(t *testing.T) {
	var buf bytes.Buffer
	a, err := New(context.Background(), testConfig(), logger.NewWithWriter("info", "json", &buf))
	require.NoError(t, err)
	defer a.Close()

	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world!\n"), 0o600))

	status, err := a.Send(context.Background(), source.KindFile, path)
	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: Hello world!\n", status)
	assert.Contains(t, buf.String(), "delivery disabled")

	status, err = a.Send(context.Background(), source.KindDatabase, "")
	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: "+source.DatabasePlaceholder, status)
}

func TestApp_NoBackingServices(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.Nop())
	require.NoError(t, err)

	assert.Empty(t, a.HealthChecks())
	assert.NoError(t, a.Close())

	_, err = a.Send(context.Background(), source.KindStored, "nightly")
	require.ErrorIs(t, err, source.ErrConnectionFailure)
}

func TestApp_UnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Email.Provider = "carrier-pigeon"

	_, err := New(context.Background(), cfg, logger.Nop())
	require.ErrorIs(t, err, email.ErrUnknownProvider)
}

func newAPIServer(t *testing.T, a *App) *httptest.Server {
	t.Helper()
	h := handler.New(a.HealthChecks(), a.Log, a.APISources(), a.Dispatcher)
	srv := httptest.NewServer(router.New(h, middleware.New(a.Redis, a.Log, a.Config)))
	t.Cleanup(srv.Close)
	return srv
}

func postSend(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/messages/send", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestApp_APIFileSourcesDisabledWithoutFilesDir(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("private"), 0o600))

	srv := newAPIServer(t, a)
	for _, kind := range []string{source.KindFile, source.KindXML, source.KindAuto} {
		status, out := postSend(t, srv, `{"source":"`+kind+`","ref":"`+path+`"}`)
		assert.Equal(t, http.StatusForbidden, status, kind)
		assert.NotContains(t, out, "status", kind)
	}

	// The CLI path is not confined.
	body, err := a.Send(context.Background(), source.KindFile, path)
	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: private", body)
}

func TestApp_APIFileSourcesConfinedToFilesDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "bodies")
	require.NoError(t, os.Mkdir(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "log.txt"), []byte("Hello world!"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o600))

	cfg := testConfig()
	cfg.Source.FilesDir = dir
	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	srv := newAPIServer(t, a)

	status, out := postSend(t, srv, `{"source":"file","ref":"log.txt"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Send Email With Body: Hello world!", out["status"])

	for _, ref := range []string{
		"../secret.txt",
		filepath.Join(parent, "secret.txt"),
		"/etc/passwd",
		"bodies/../../secret.txt",
	} {
		status, out := postSend(t, srv, `{"source":"file","ref":"`+ref+`"}`)
		assert.Equal(t, http.StatusNotFound, status, ref)
		assert.NotContains(t, out, "status", ref)
	}
}

func TestApp_MissingFilesDir(t *testing.T) {
	cfg := testConfig()
	cfg.Source.FilesDir = filepath.Join(t.TempDir(), "absent")

	_, err := New(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}
