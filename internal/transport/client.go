// Package transport issues JSON requests against the case backend. It
// injects the bearer token, translates every failure into an *APIError and
// treats 204 responses as having no body.
package transport

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

	"go.uber.org/zap"
)

// NoBody is what Request returns for a 204 No Content response
var NoBody json.RawMessage

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Options configures a single request
type Options struct {
	Method  string
	Body    any
	Headers http.Header
	Query   url.Values
	// Anonymous suppresses the session token, e.g. for login calls.
	Anonymous bool
}

// Client talks to the REST backend.
//
// Client instances are safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(token string)
	logger         *zap.SugaredLogger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook registers fn to run whenever the backend answers 401.
// fn receives the token the rejected request carried, or "".
func WithUnauthorizedHook(fn func(token string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a client for baseURL (scheme and host, no trailing slash)
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource wires the token source after construction; the session
// manager and the client depend on each other.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// SetUnauthorizedHook wires the 401 hook after construction
func (c *Client) SetUnauthorizedHook(fn func(token string)) { c.onUnauthorized = fn }

// Request performs one call and returns the raw JSON body, or NoBody for 204.
func (c *Client) Request(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	token := ""
	if c.tokens != nil && !opts.Anonymous {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// Caller headers win over defaults and the session token.
	for key, values := range opts.Headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Authorization") == "" && !opts.Anonymous {
		c.logger.Warnw("No auth token available, sending unauthenticated request",
			"method", method,
			"path", path,
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("Request failed without response",
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, &APIError{Message: NetworkErrorMessage, Status: 0}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent {
			return NoBody, nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil || !json.Valid(raw) {
			c.logger.Errorw("Malformed response body",
				"method", method,
				"path", path,
				"status", resp.StatusCode,
			)
			return nil, &APIError{
				Message: fmt.Sprintf("Malformed response from %s", path),
				Status:  resp.StatusCode,
				Code:    CodeMalformedResponse,
			}
		}
		return raw, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer "))
	}

	return nil, decodeError(resp)
}

// decodeError builds the APIError for a non-2xx response. Fields are read
// independently so an unexpected type in one never hides the others.
func decodeError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(resp.Body)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Code: scalarText(fields["code"])}
	if msg := scalarText(fields["message"]); msg != "" {
		apiErr.Message = msg
	} else if msg := scalarText(fields["error"]); msg != "" {
		apiErr.Message = msg
	} else {
		apiErr.Message = fmt.Sprintf("HTTP Error %d", resp.StatusCode)
	}
	return apiErr
}

// scalarText renders a JSON string or number as text. Objects, arrays,
// booleans and null yield "".
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// do runs a request and decodes the body into out when both exist
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.Request(ctx, path, Options{Method: method, Body: in, Query: query})
	if err != nil {
		return err
	}
	return c.decode(path, raw, out)
}

func (c *Client) decode(path string, raw json.RawMessage, out any) error {
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Errorw("Failed to decode response", "path", path, "error", err)
		return &APIError{
			Message: fmt.Sprintf("Malformed response from %s", path),
			Status:  http.StatusOK,
			Code:    CodeMalformedResponse,
		}
	}
	return nil
}

// Get issues a GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// PostAnonymous issues a POST without the session token
func (c *Client) PostAnonymous(ctx context.Context, path string, in, out any) error {
	raw, err := c.Request(ctx, path, Options{Method: http.MethodPost, Body: in, Anonymous: true})
	if err != nil {
		return err
	}
	return c.decode(path, raw, out)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}
