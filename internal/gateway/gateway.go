// ABOUTME: HTTP client for the thoughts API implementing list and create
// ABOUTME: Maps responses to validated messages, validation errors, or transport errors

package gateway

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

	"github.com/harper/thoughts/internal/models"
)

// MaxResponseSize bounds how much of a response body is read.
const MaxResponseSize = 4 * 1024 * 1024 // 4MB

const (
	messagesPath = "/api/messages"
	userAgent    = "thoughts/1.0"
)

// TransportError is a network or server failure distinct from validation.
type TransportError struct {
	Op         string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: unexpected status code %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status code %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
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

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// Client talks to a thoughts server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server URL must use http or https scheme, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("server URL must have a host")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every persisted message in arrival order.
func (c *Client) List(ctx context.Context) ([]models.Message, error) {
	const op = "list messages"

	body, status, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if status != http.StatusOK {
		return nil, &TransportError{Op: op, StatusCode: status}
	}

	var messages []models.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	for _, m := range messages {
		if err := m.Validate(); err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid response: %w", err)}
		}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Create submits draft. A 400 response yields *models.ValidationError carrying
// the server's message; any other failure yields *TransportError.
func (c *Client) Create(ctx context.Context, draft models.Draft) (models.Message, error) {
	const op = "create message"

	payload, err := json.Marshal(draft)
	if err != nil {
		return models.Message{}, fmt.Errorf("encode draft: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, payload)
	if err != nil {
		return models.Message{}, &TransportError{Op: op, Err: err}
	}

	switch status {
	case http.StatusCreated, http.StatusOK:
		var created models.Message
		if err := json.Unmarshal(body, &created); err != nil {
			return models.Message{}, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
		if err := created.Validate(); err != nil {
			return models.Message{}, &TransportError{Op: op, Err: fmt.Errorf("invalid response: %w", err)}
		}
		return created, nil
	case http.StatusBadRequest:
		var payload struct {
			Message string `json:"message"`
			Field   string `json:"field"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
			return models.Message{}, &TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("malformed error payload")}
		}
		return models.Message{}, &models.ValidationError{Field: payload.Field, Message: payload.Message}
	default:
		return models.Message{}, &TransportError{Op: op, StatusCode: status}
	}
}

func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+messagesPath, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body with a size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, resp.StatusCode, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return body, resp.StatusCode, nil
}
