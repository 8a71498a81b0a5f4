// Package client talks to the research backend over JSON/HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quaero/internal/api"
	"quaero/internal/logging"
)

const (
	searchPath   = "/api/search"
	modelsPath   = "/api/models"
	discoverPath = "/api/discover"

	opDecode = "decode response"

	// maxErrorBody bounds how much of a failed response body is kept.
	maxErrorBody = 4096
)

// Client is the backend collaborator used by the query, catalog and discover
// controllers.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithTimeout bounds each request with a context deadline. Zero disables the
// deadline: requests then run until they resolve, fail or are cancelled.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("timeout must be >= 0")
		}
		c.timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// New constructs a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		userAgent: "quaero",
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Search submits a query and returns the synthesized answer.
func (c *Client) Search(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error) {
	var out api.SearchResponse
	if err := c.do(ctx, http.MethodPost, searchPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Models fetches the model catalog.
func (c *Client) Models(ctx context.Context) (*api.ModelCatalog, error) {
	var out api.ModelCatalog
	if err := c.do(ctx, http.MethodGet, modelsPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Discover asks the backend to plan, search and curate sources for a topic.
func (c *Client) Discover(ctx context.Context, req api.DiscoverRequest) (*api.DiscoverResponse, error) {
	var out api.DiscoverResponse
	if err := c.do(ctx, http.MethodPost, discoverPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Debug("backend request failed", "method", method, "path", path, "error", err)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	logging.Debug("backend response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: opDecode, Err: err}
	}
	return nil
}
