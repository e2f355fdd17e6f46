// Package api wraps the single HTTP transport used to reach the coaching
// backend. Every outbound call flows through Client.Do, which attaches the
// bearer credential from the session store and normalizes failures into
// TransportError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"example.com/fitcoach/internal/observability"
)

// TokenSource supplies the current bearer token. An empty string means the
// request is sent unauthenticated; authorization is the backend's problem,
// the client never blocks a call for a missing token.
type TokenSource interface {
	Token() string
}

// Client is the shared transport wrapper with a fixed base address.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient constructs a Client. tokens may be nil for a client that never
// authenticates (used by tests).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// Do performs one JSON request. body (when non-nil) is encoded as the request
// payload; out (when non-nil) receives the decoded 2xx response body. All
// failures come back as *TransportError, except a canceled context which
// returns the context's own error so callers can drop stale work.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	err := c.do(ctx, method, path, body, out)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.ObserveRequest(servicePrefix(path), outcome, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Status: resp.StatusCode, Message: errorDetail(resp.Body, resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// Get issues a GET for path and decodes into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with body and decodes into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// errorDetail extracts a human-readable message from an error response body.
// The backend answers with {"type","detail"} payloads but other shapes and
// plain text show up too.
func errorDetail(body io.Reader, status int) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return http.StatusText(status)
	}
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, candidate := range []string{payload.Detail, payload.Message, payload.Error} {
			if candidate != "" {
				return candidate
			}
		}
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return http.StatusText(status)
	}
	return trimmed
}

// servicePrefix maps a request path to its backend service label for metrics.
func servicePrefix(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}
