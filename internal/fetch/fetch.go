// ABOUTME: HTTP fetcher for importing feeds, with SSRF and response-size protection.
// ABOUTME: Context-aware; a Client is safe for concurrent use.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// MaxResponseSize bounds every fetched body.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

// UserAgent identifies the importer to remote servers.
const UserAgent = "thoughts/1.0 (feed importer)"

// ErrPrivateAddress is returned for hosts resolving to private address ranges.
var ErrPrivateAddress = errors.New("access to private IP ranges is not allowed")

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithResolver overrides host resolution for the private-range check.
func WithResolver(lookup func(host string) ([]net.IP, error)) Option {
	return func(c *Client) {
		if lookup != nil {
			c.lookupIP = lookup
		}
	}
}

// Client fetches remote documents.
type Client struct {
	httpClient *http.Client
	lookupIP   func(host string) ([]net.IP, error)
}

// New creates a Client with a 30s timeout.
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		lookupIP:   net.LookupIP,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// isPrivateIP reports private ranges. Loopback is allowed so local servers and tests work.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// Get retrieves urlStr and returns its body. Non-200 responses return a
// *StatusError; bodies larger than MaxResponseSize are rejected.
func (c *Client) Get(ctx context.Context, urlStr string) ([]byte, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL: unsupported scheme %q", parsedURL.Scheme)
	}

	if ips, err := c.lookupIP(parsedURL.Hostname()); err == nil {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return nil, ErrPrivateAddress
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: urlStr, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}
	return body, nil
}
