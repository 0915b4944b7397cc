// Package client implements the authenticated HTTP transport used by the
// operator console. Every call attaches the bearer token; calls without a
// token fail before any network I/O.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoToken indicates a request was attempted without a bearer token.
var ErrNoToken = errors.New("unauthorized: no token provided")

// Client issues JSON requests against the EPES service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient constructs a Client with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.http = hc
	}
	return c
}

// GET issues an authenticated GET request.
func (c *Client) GET(ctx context.Context, route, token string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, route, token, nil, params)
}

// POST issues an authenticated POST request with a JSON body.
func (c *Client) POST(ctx context.Context, route, token string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, route, token, body, nil)
}

// PUT issues an authenticated PUT request with a JSON body.
func (c *Client) PUT(ctx context.Context, route, token string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, route, token, body, nil)
}

// DELETE issues an authenticated DELETE request.
func (c *Client) DELETE(ctx context.Context, route, token string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, route, token, nil, params)
}

// do performs the request. Transport failures, non-2xx statuses, and 2xx
// payloads carrying an application-level "error" field are all collapsed into
// a single error with the best available message. No retries are attempted.
func (c *Client) do(ctx context.Context, method, route, token string, body any, params url.Values) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	target := c.baseURL + route
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(route, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("console/client: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("console/client: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("console/client: %s %s: %w", method, route, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("console/client: read response: %w", err)
	}

	if msg := errorMessage(data); msg != "" {
		return nil, fmt.Errorf("console/client: %s %s: %s", method, route, msg)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("console/client: %s %s: unexpected status %d", method, route, res.StatusCode)
	}

	return json.RawMessage(data), nil
}

// errorMessage extracts the application-level error field from a JSON payload.
func errorMessage(data []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}
