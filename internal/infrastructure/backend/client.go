// Package backend provides the HTTP clients for the remote services this
// orchestrator consumes: scenario source, checklist, inventory estimator,
// photo analyzer, scoring, advice, response history, and group service.
// All transport failures surface as *RemoteError.
package backend

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

	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

// RemoteError wraps a failed call to a remote backend service. Status is
// zero when the request never produced a response.
type RemoteError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("backend %s: %v", e.Endpoint, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client talks to the remote backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	adminToken string
	logger     *logging.ChanneledLogger
}

// NewClient creates a backend client. adminToken is the bearer token the
// admin proxy endpoints forward to the backend admin API.
func NewClient(baseURL string, timeout time.Duration, adminToken string, logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		adminToken: adminToken,
		logger:     logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Health probes the backend root endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, "", "", nil)
}

// AbsoluteURL resolves a backend-relative resource path against the base
// URL. Already absolute URLs pass through unchanged.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", "", out)
}

func (c *Client) getJSONAuth(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", "Bearer "+c.adminToken, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Endpoint: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}
	return c.do(ctx, http.MethodPost, path, reader, "application/json", "", out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, authorization string, out any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Endpoint: path, Err: fmt.Errorf("build request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.LogBackendCall(path, 0, time.Since(start), err)
		return &RemoteError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.LogBackendCall(path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Endpoint: path, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
