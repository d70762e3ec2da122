// Package rest talks to the finance REST backend over HTTP/JSON.
package rest

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

	"chitieu/internal/api"
	"chitieu/internal/log"
)

const maxErrorBody = 64 << 10

// Client implements api.Backend against the REST backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
}

var _ api.Backend = (*Client)(nil)

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		logger: logger.WithComponent(log.ComponentREST),
	}, nil
}

type cookieKey struct{}

// WithCookies attaches the browser's cookies to ctx; every backend call made
// with that context carries them so the user's session applies.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	if len(cookies) == 0 {
		return ctx
	}
	return context.WithValue(ctx, cookieKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	c, _ := ctx.Value(cookieKey{}).([]*http.Cookie)
	return c
}

// errorBody is the backend's failure envelope.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := *c.base
	u.RawPath = c.base.EscapedPath() + path
	u.Path, _ = url.PathUnescape(u.RawPath)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, ck := range cookiesFrom(ctx) {
		req.AddCookie(ck)
	}
	return req, nil
}

// send performs the request and returns the response when the status is
// 2xx. Any other status is converted into *api.StatusError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(req.Context(), "Backend request failed",
			log.FieldMethod, req.Method,
			log.FieldPath, req.URL.Path,
			log.FieldError, err)
		return nil, fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, api.ErrTransport, err)
	}
	c.logger.DebugContext(req.Context(), "Backend request",
		log.FieldMethod, req.Method,
		log.FieldPath, req.URL.Path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &eb)
	return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path,
		&api.StatusError{Code: resp.StatusCode, Message: eb.Message})
}

// do runs a JSON round trip. out may be nil when the body is ignored.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
