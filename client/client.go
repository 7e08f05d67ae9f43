// Package client implements the authenticated HTTP request builder the rest
// of this module treats as a collaborator: GET/POST/PUT with JSON bodies,
// raw-bytes POST with extra headers, and response decoding.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/immich-go/client/immicherr"
)

// UserAgent is sent with every request, per the fixed default headers.
const UserAgent = "Immich-go-client/1.0 (client)"

// DefaultDeviceID is used when a caller does not supply its own device
// identity.
const DefaultDeviceID = "immich-go-client"

// Auth produces the single authentication header for a request.
type Auth interface {
	Header() (name, value string)
}

// CookieAuth authenticates via the session cookie acquired at login.
type CookieAuth string

func (c CookieAuth) Header() (string, string) {
	return "Cookie", "immich_access_token=" + string(c)
}

// APIKeyAuth authenticates via a long-lived API key.
type APIKeyAuth string

func (k APIKeyAuth) Header() (string, string) {
	return "x-api-key", string(k)
}

type noAuth struct{}

func (noAuth) Header() (string, string) { return "", "" }

// Client talks to one Immich server. It is cheap to Clone: the underlying
// *http.Client and the auth/base URL are shared, which is safe because both
// are immutable after construction.
type Client struct {
	baseURL string
	auth    Auth
	hc      *http.Client
}

// New builds a Client against baseURL, which must be an absolute http(s) URL.
func New(baseURL string, auth Auth) (*Client, error) {
	u := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, fmt.Errorf("%w: %q must start with http:// or https://", immicherr.ErrInvalidURL, baseURL)
	}
	return &Client{baseURL: u, auth: auth, hc: &http.Client{}}, nil
}

// Clone returns a shallow copy safe for a single upload worker goroutine to
// own. Cloning does not create a new underlying transport.
func (c *Client) Clone() *Client {
	cc := *c
	return &cc
}

func (c *Client) addPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return c.baseURL + p
	}
	return c.baseURL + "/" + p
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.addPath(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if c.auth != nil {
		if name, value := c.auth.Header(); name != "" {
			req.Header.Set(name, value)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &immicherr.TransportError{Err: err}
	}
	return resp, nil
}

// GetJSON issues a GET and decodes a JSON response body into out (if out is
// non-nil and the body is non-empty). It returns the HTTP status code.
func (c *Client) GetJSON(ctx context.Context, path string, out any) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	return c.doJSON(req, out)
}

// PostJSON issues a POST with a JSON-encoded body and decodes a JSON
// response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) (int, error) {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

// PutJSON issues a PUT with a JSON-encoded body and decodes a JSON response
// into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) (int, error) {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) (int, error) {
	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %v", immicherr.ErrInvalidResponse, err)
		}
	}
	return resp.StatusCode, nil
}

// PostBytes issues a POST with a raw body, a given Content-Type and any
// number of extra headers, returning the full response for the caller to
// interpret (the asset-upload response carries fields the generic JSON
// helpers above don't need to know about).
func (c *Client) PostBytes(ctx context.Context, path, contentType string, extraHeaders map[string]string, body []byte) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	return c.do(req)
}
