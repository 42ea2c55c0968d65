// Package capacities is the HTTP gateway to the Capacities API. All outbound
// calls go through Client.Request, which attaches the bearer token and
// normalizes every transport, status, and decode failure into the shared
// error taxonomy, so callers never see raw transport errors.
package capacities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caplaunch/caplaunch/internal/errors"
)

// DefaultBaseURL is the fixed base path of the Capacities API.
const DefaultBaseURL = "https://api.capacities.io"

// TokenSource supplies the API token at request time. Returning "" means no
// token is configured.
type TokenSource func() string

// Client issues authenticated requests against the Capacities API.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Tests point this at an
// httptest.Server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger attaches a logger used by the debug transport.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithDebugLogging wraps the transport to dump requests and responses at
// debug level.
func WithDebugLogging() Option {
	return func(c *Client) {
		transport := c.http.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: transport, log: &c.log}
	}
}

// New creates a Client. The token source is consulted on every request so a
// freshly configured token takes effect without restarting.
func New(token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request issues a call to the given endpoint (path beginning with "/") and
// returns the decoded JSON object. body is JSON-encoded when non-nil. An
// empty 2xx body decodes as {"success": true} rather than a parse failure.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (map[string]any, error) {
	token := c.token()
	if token == "" {
		return nil, errors.NewConfiguration("API token")
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewTransport(0, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, errors.NewTransport(0, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewTransport(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransport(resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.NewTransport(resp.StatusCode, fmt.Errorf("%s", msg))
	}

	// Some endpoints return an empty body on success
	if strings.TrimSpace(string(raw)) == "" {
		return map[string]any{"success": true}, nil
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.NewTransport(resp.StatusCode, err)
	}
	return result, nil
}

// debugTransport dumps requests and responses for troubleshooting.
type debugTransport struct {
	base http.RoundTripper
	log  *zerolog.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		dt.log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Str("request_dump", string(dump)).
			Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Debug().
			Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("HTTP request failed")
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		dt.log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Int("status_code", resp.StatusCode).
			Str("response_dump", string(dump)).
			Msg("HTTP response")
	}

	return resp, nil
}
