package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Default client settings.
const (
	// DefaultUserAgent looks like a browser; the site rejects bare clients.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultMaxBodySize limits the body read for one page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Page is the outcome of one GET request.
// A non-2xx status is a Page, not an error: the caller decides what it means.
type Page struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Body is the response body, truncated to the client's max body size.
	Body []byte
}

// OK reports whether the response status is in the 2xx range.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Err returns a *StatusError for a non-2xx page, nil otherwise.
func (p *Page) Err() error {
	if p.OK() {
		return nil
	}
	return &StatusError{URL: p.URL, StatusCode: p.StatusCode}
}

// Client fetches pages, optionally through an egress proxy.
// All requests share one rate limiter, so a Client shared across
// goroutines keeps the overall request rate bounded.
type Client struct {
	// http is the underlying HTTP client.
	http *http.Client

	// route is the parsed egress proxy, nil for a direct connection.
	route *url.URL

	// limiter bounds the request rate. nil disables rate limiting.
	limiter *rate.Limiter

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize limits the bytes read from a response body.
	maxBodySize int64

	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit limits requests to rps per second with a burst of one.
// rps <= 0 disables rate limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the given route and per-request timeout.
// An empty route connects directly. The route is validated, but no
// connection is made until the first Fetch.
func NewClient(route string, timeout time.Duration, opts ...Option) (*Client, error) {
	parsed, err := ParseRoute(route)
	if err != nil {
		return nil, err
	}

	transport, err := newTransport(parsed)
	if err != nil {
		return nil, err
	}

	c := &Client{
		route:       parsed,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Transport: &headerInjectingTransport{
			base: transport,
			headers: map[string]string{
				"User-Agent":      c.userAgent,
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.5",
			},
		},
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return c, nil
}

// Route returns the configured route, or "" for a direct connection.
func (c *Client) Route() string {
	if c.route == nil {
		return ""
	}
	return c.route.String()
}

// Fetch performs a GET request and returns the page.
// It waits for the rate limiter first and returns an error only for
// transport failures, cancellation and body read errors.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if pageURL == "" {
		return nil, ErrEmptyURL
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	return &Page{
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// headerInjectingTransport wraps an http.RoundTripper to set fixed headers
// on every request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		if clone.Header.Get(key) == "" {
			clone.Header.Set(key, value)
		}
	}
	return t.base.RoundTrip(clone)
}
