// package gateway implements the HTTP client for the music gateway.
//
// Every call resolves to either a parsed JSON value or a normalized
// [*APIError]; callers observe a single error contract whether the failure
// happened at the transport level or as a non-2xx response.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/desertthunder/trax/internal/shared"
)

const defaultBaseURL = "http://localhost:8000"

// TokenSource supplies the current access credential for outgoing requests.
// An empty string means no credential; the Authorization header is then
// omitted entirely rather than sent as an empty bearer value.
type TokenSource interface {
	Token() string
}

// Client issues HTTP requests against the configured gateway base URL.
//
// The client never mutates session state itself. A hook installed via
// [Client.SetUnauthorizedHook] lets the session controller observe
// authentication failures on authenticated calls.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// RequestOptions controls a single request. The zero value is an
// unauthenticated-body-less GET with auth enabled.
type RequestOptions struct {
	Method   string // defaults to GET
	Body     []byte // pre-serialized JSON, sets Content-Type when non-empty
	SkipAuth bool   // suppress credential injection
}

// Result is the success branch of the normalized response envelope.
type Result struct {
	StatusCode int
	Raw        string // verbatim body text, preserved even when not JSON
	Value      any    // parsed JSON value, nil unless IsJSON
	IsJSON     bool
}

// Decode unmarshals the response body into v. Fails when the body was not JSON.
func (r *Result) Decode(v any) error {
	if !r.IsJSON {
		return fmt.Errorf("response is not JSON: %q", r.Raw)
	}
	if err := json.Unmarshal([]byte(r.Raw), v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// New creates a gateway client. The base URL defaults to the local
// development gateway, and the HTTP client defaults to one carrying a cookie
// jar so a gateway-set refresh cookie survives across calls.
func New(baseURL string, client *http.Client, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
	}
}

// BaseURL returns the configured gateway base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHook registers a callback invoked whenever an authenticated
// request fails with 401. The session controller uses it to clear stored
// credentials so the next guarded action demands sign-in again.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Request issues a single request against baseURL+path and normalizes the response.
//
// The body is always read fully as text before a JSON parse is attempted, so
// plain-text or HTML error pages never cause a decode failure. Success is
// decided by the status code alone; any non-2xx status yields an [*APIError]
// regardless of body shape.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Result, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: path must begin with /: %q", shared.ErrInvalidInput, path)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body *bytes.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if len(opts.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", shared.GenerateID())

	// The credential is read here, at issue time, never cached across a
	// suspension point. A sign-out that lands while this request is in
	// flight simply lets it complete with the token it already captured.
	if !opts.SkipAuth {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	result, err := normalize(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(result)
		if apiErr.Unauthorized() && !opts.SkipAuth && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, apiErr
	}

	return result, nil
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*Result, error) {
	return c.Request(ctx, path, RequestOptions{})
}

// Post performs a POST request with the given pre-serialized JSON body.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*Result, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body})
}
