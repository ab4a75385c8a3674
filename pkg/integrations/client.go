package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/crateinfo/pkg/observability"
)

// Client provides shared HTTP functionality for registry API clients.
// It applies default headers and reports traffic to [observability.HTTP].
//
// Client does not interpret status codes: registries such as crates.io
// encode the outcome in the response body, so callers receive the status
// and the raw body and decide for themselves.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// NewClient creates a Client with the given HTTP client and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for httpClient to use [NewHTTPClient] with the default timeout,
// and nil for headers if no default headers are needed.
func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:    httpClient,
		headers: headers,
	}
}

// Fetch performs an HTTP GET request and reads the whole response body.
//
// Connection failures, timeouts and body read failures are wrapped with
// [ErrNetwork]. Bodies larger than [MaxBodyBytes] fail with [ErrBodyTooLarge].
// Non-2xx responses are not errors; inspect [Response.StatusCode].
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if int64(len(body)) > MaxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, MaxBodyBytes)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
