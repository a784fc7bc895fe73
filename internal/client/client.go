// Package client is the storefront's HTTP client. Every API call of the
// application goes through one Client so that an Interceptor installed on it
// sees all traffic.
package client

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL points at a locally running server.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds every request made without a context deadline.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request counts.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the client used for every call. Interceptors are
// installed on it.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}
