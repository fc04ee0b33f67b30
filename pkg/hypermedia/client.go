// Package hypermedia fetches and submits JSON documents addressed by schema
// links.
package hypermedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
	Body   string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("hypermedia: %s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// ErrNoDoer is returned when a client is used without a transport.
var ErrNoDoer = errors.New("hypermedia: http doer is not configured")

// Client performs JSON requests against hypermedia links.
type Client struct {
	doer    Doer
	base    *url.URL
	timeout time.Duration
	headers http.Header
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the transport.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithBaseURL resolves relative hrefs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base == "" {
			return
		}
		if parsed, err := url.Parse(base); err == nil {
			c.base = parsed
		}
	}
}

// WithTimeout caps each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers.Add(name, value)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client. Without WithDoer it uses a plain *http.Client.
func NewClient(options ...Option) *Client {
	c := &Client{
		headers: make(http.Header),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.doer == nil {
		c.doer = &http.Client{}
	}
	return c
}

// Resolve turns href into an absolute URL when a base is configured.
func (c *Client) Resolve(href string) string {
	if c == nil || c.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}

// Get fetches href and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, href string, out any) error {
	return c.Do(ctx, http.MethodGet, href, nil, out)
}

// GetRaw fetches href and returns the body.
func (c *Client) GetRaw(ctx context.Context, href string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, href, nil)
}

// Do sends body as JSON with method and decodes the response into out. A nil
// out discards the response body; an empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, href string, body, out any) error {
	raw, err := c.send(ctx, method, href, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hypermedia: decode %s %s: %w", method, href, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, href string, body any) ([]byte, error) {
	if c == nil || c.doer == nil {
		return nil, ErrNoDoer
	}
	if strings.TrimSpace(href) == "" {
		return nil, errors.New("hypermedia: href is required")
	}
	target := c.Resolve(href)

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("hypermedia: encode %s %s: %w", method, target, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, target, reader)
	if err != nil {
		return nil, err
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("hypermedia request", "method", method, "url", target)
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: %s %s: %w", method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: read %s %s: %w", method, target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, StatusError{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}
