// Package mailrelay is a Go client for the mailrelay HTTP API.
package mailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source kinds accepted by SendMessage.
const (
	SourceFile     = "file"
	SourceXML      = "xml"
	SourceAuto     = "auto"
	SourceDatabase = "database"
	SourceStored   = "stored"
	SourceRedis    = "redis"
	SourceStatic   = "static"
)

// Config holds the configuration for the mailrelay client.
type Config struct {
	// BaseURL is the root URL of the mailrelay server.
	// The "/api/v1" suffix is appended automatically if missing.
	BaseURL string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, "/api/v1") {
		c.BaseURL = c.BaseURL + "/api/v1"
	}
}

// Client calls the mailrelay API.
type Client struct {
	cfg Config
}

// NewClient creates a new client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// SendRequest selects the message source to dispatch.
type SendRequest struct {
	Source string `json:"source"`
	Ref    string `json:"ref,omitempty"`
}

// SendResponse is returned when a message was dispatched.
type SendResponse struct {
	Status string `json:"status"`
}

// SendMessage asks the server to dispatch the body of the given source.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) (*SendResponse, error) {
	body, err := c.post(ctx, "/messages/send", req)
	if err != nil {
		return nil, err
	}

	var resp SendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mailrelay: failed to parse response: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mailrelay: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mailrelay: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailrelay: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mailrelay: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	return body, nil
}
