// Package gateway is the typed HTTP client for the Findora API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/findora/findora/internal/session"
)

// Client issues one request per call against the API rooted at BaseURL
// (for example "http://localhost:8080/api"). It sets no timeout of its
// own; cancel through the context.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client. The bearer token, when present, is read from
// store on every authenticated call.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    http.DefaultClient,
		session: store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	auth        bool
}

func jsonRequest(op, method, path string, v any) (request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("%s: encoding request: %w", op, err)
	}
	return request{op: op, method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// do sends req and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	if req.auth && c.session != nil {
		token, err := session.Token(ctx, c.session)
		if err != nil {
			return fmt.Errorf("%s: reading token: %w", req.op, err)
		}
		// A missing token is not an error here; the server answers 401.
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: req.op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{Op: req.op, Status: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Op: req.op, Err: err}
	}
	return nil
}

// errorMessage extracts {"message": ...}, falling back to {"error": ...}.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

var errEmptyBody = errors.New("empty body")

// requireBody rejects a 2xx answer that decoded to nothing.
func requireBody[T any](op string, v *T) (*T, error) {
	if v == nil {
		return nil, &DecodeError{Op: op, Err: errEmptyBody}
	}
	return v, nil
}
