// Package hub downloads single files from a Hugging Face compatible model hub.
package hub

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://huggingface.co"
	DefaultRevision  = "main"
	DefaultUserAgent = "llmsvc/1.0"
	// Large GGUF artifacts take a while; the request context bounds it further.
	DefaultTimeout = 2 * time.Hour
)

var (
	ErrInvalidRepoID = errors.New("invalid repo id")
	ErrNotFound      = errors.New("file not found on hub")
	ErrUnauthorized  = errors.New("hub authentication failed")
	ErrRateLimited   = errors.New("hub rate limit exceeded")
	ErrBadStatus     = errors.New("unexpected hub response")
)

// Client talks to the hub's resolve endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	revision   string
	progress   ProgressFunc
}

// ProgressFunc receives cumulative bytes written and the expected total
// (-1 when the server sent no Content-Length).
type ProgressFunc func(written, total int64)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a mirror or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(tok string) Option { return func(c *Client) { c.token = tok } }

// WithRevision selects the branch, tag or commit to resolve against.
func WithRevision(rev string) Option {
	return func(c *Client) {
		if rev != "" {
			c.revision = rev
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithProgress installs a progress callback for downloads.
func WithProgress(fn ProgressFunc) Option { return func(c *Client) { c.progress = fn } }

// NewClient returns a Client with defaults applied before opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		revision:   DefaultRevision,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured hub endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveURL returns the download URL for filename in repoID.
func (c *Client) ResolveURL(repoID, filename string) string {
	return fmt.Sprintf("%s/%s/resolve/%s/%s", c.baseURL, repoID, c.revision, filename)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func validateRepoID(repoID string) error {
	parts := strings.Split(repoID, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: %q (want owner/name)", ErrInvalidRepoID, repoID)
	}
	return nil
}
