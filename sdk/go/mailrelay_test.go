package mailrelay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/messages/send", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SourceDatabase, req.Source)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Send Email With Body: Pretend this came from a database!"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"})
	resp, err := c.SendMessage(context.Background(), SendRequest{Source: SourceDatabase})

	require.NoError(t, err)
	assert.Equal(t, "Send Email With Body: Pretend this came from a database!", resp.Status)
}

func TestClient_SendMessage_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"file_not_found","message":"source: file not found: /x"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.SendMessage(context.Background(), SendRequest{Source: SourceFile, Ref: "/x"})

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "file_not_found", apiErr.Code)
}

func TestParseAPIError_NonJSON(t *testing.T) {
	t.Parallel()

	err := parseAPIError(http.StatusBadGateway, []byte("upstream down"))

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "unknown", apiErr.Code)
	assert.Equal(t, "upstream down", apiErr.Message)
}
