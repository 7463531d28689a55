package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"availarr/internal/config"
	"availarr/internal/logging"
)

const userAgent = "Availarr/0.1.0"

// maxErrorBody bounds how much of an error response is read for messages.
const maxErrorBody = 2048

// Client provides access to a Plex server's library endpoints.
type Client struct {
	baseURL    string
	token      string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	machineID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger to the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "plex")
		}
	}
}

// New creates a Plex client.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("plex base url required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("plex token required")
	}
	client := &Client{
		baseURL:    baseURL,
		token:      token,
		clientID:   strings.ReplaceAll(uuid.New().String(), "-", ""),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig returns a client when the plex section is configured and nil
// otherwise. A nil client is safe to pass around; consumers must check
// Configured before use or accept empty results.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil || !cfg.PlexConfigured() {
		return nil
	}
	client, err := New(cfg.Plex.URL, cfg.Plex.Token,
		WithHTTPClient(&http.Client{Timeout: cfg.PlexTimeout()}),
		WithLogger(logger),
	)
	if err != nil {
		return nil
	}
	return client
}

// Configured reports whether the client can reach a server.
func (c *Client) Configured() bool {
	return c != nil
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// get issues an authenticated GET and returns the body and content type.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build plex request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", "Availarr")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("plex request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", fmt.Errorf("plex %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read plex response: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) log() *slog.Logger {
	if c == nil || c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}
