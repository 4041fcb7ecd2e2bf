// Package api is the client for the remote recipes service.
//
// Every endpoint wrapper goes through Client.do, which owns the base URL, JSON
// encoding and decoding, and conversion of non-2xx responses into *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// DefaultBaseURL is the development host used when nothing else is configured.
const DefaultBaseURL = "http://localhost:30067"

// ProxyPath is the same-origin path a reverse proxy forwards to the API in production.
const ProxyPath = "/api"

// Observer is notified after every upstream call. status is 0 when no response arrived.
type Observer func(endpoint, method string, status int, duration time.Duration, err error)

// Client talks to the remote recipes service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall timeout on upstream calls. Zero keeps the transport's behaviour.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithObserver registers a hook called after every upstream call.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a Client for the given base URL.
// PRE: baseURL is an absolute URL (see ResolveBaseURL)
// POST: Returns a ready-to-use client; a trailing slash on baseURL is dropped
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveBaseURL picks the API base URL.
// Precedence: explicit override, then the same-origin proxy path when this deployment is
// served from a non-local host, then DefaultBaseURL.
func ResolveBaseURL(override, publicURL string) string {
	if o := strings.TrimSpace(override); o != "" {
		return strings.TrimRight(o, "/")
	}
	if u, err := url.Parse(strings.TrimSpace(publicURL)); err == nil && u.Scheme != "" && !isLocalHost(u.Hostname()) {
		return u.Scheme + "://" + u.Host + ProxyPath
	}
	return DefaultBaseURL
}

func isLocalHost(host string) bool {
	host = strings.ToLower(host)
	switch host {
	case "", "localhost", "0.0.0.0":
		return true
	}
	if strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// multipartBody is a pre-encoded multipart/form-data payload.
type multipartBody struct {
	contentType string
	data        io.Reader
}

// requestOptions describe one call made through do.
type requestOptions struct {
	method      string
	authHeader  string
	body        any
	multipart   *multipartBody
	skipJSON    bool
	allowStatus []int
}

// do executes a request and decodes the JSON response into out (when non-nil).
// Non-2xx responses (other than allowStatus) return *Error. The status code is
// returned whenever a response was received.
func (c *Client) do(ctx context.Context, endpoint, path string, opts requestOptions, out any) (int, error) {
	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	header := make(http.Header)
	header.Set("Accept", "application/json")
	switch {
	case opts.multipart != nil:
		// The multipart writer owns the boundary, so its content type is used as-is.
		body = opts.multipart.data
		header.Set("Content-Type", opts.multipart.contentType)
	default:
		header.Set("Content-Type", "application/json")
		if opts.body != nil {
			encoded, err := json.Marshal(opts.body)
			if err != nil {
				return 0, fmt.Errorf("encode %s body: %w", endpoint, err)
			}
			body = bytes.NewReader(encoded)
		}
	}
	if opts.authHeader != "" {
		header.Set("Authorization", opts.authHeader)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header = header

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, method, 0, start, err)
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var raw []byte
	if !opts.skipJSON && strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			c.observe(endpoint, method, resp.StatusCode, start, err)
			return resp.StatusCode, fmt.Errorf("read %s response: %w", endpoint, err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !success && !slices.Contains(opts.allowStatus, resp.StatusCode) {
		apiErr := newError(path, resp.StatusCode, raw)
		c.observe(endpoint, method, resp.StatusCode, start, apiErr)
		return resp.StatusCode, apiErr
	}

	if success && out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			c.observe(endpoint, method, resp.StatusCode, start, err)
			return resp.StatusCode, fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}

	c.observe(endpoint, method, resp.StatusCode, start, nil)
	return resp.StatusCode, nil
}

func (c *Client) observe(endpoint, method string, status int, start time.Time, err error) {
	if c.observer != nil {
		c.observer(endpoint, method, status, time.Since(start), err)
	}
}
