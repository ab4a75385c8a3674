package crates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crateinfo/pkg/integrations"
	"github.com/matzehuels/crateinfo/pkg/observability"
)

const (
	// DefaultBaseURL is the root of the public crates.io v1 API.
	DefaultBaseURL = "https://crates.io/api/v1"

	// DefaultUserAgent identifies this client to crates.io, which rejects
	// requests without a User-Agent.
	DefaultUserAgent = "crateinfo/1.0 (https://github.com/matzehuels/crateinfo)"
)

// Client provides read access to the crates.io crate endpoint.
//
// A Client holds only configuration and is safe for concurrent use by
// multiple goroutines. Each query is one independent HTTP round trip; the
// client neither caches nor retries.
type Client struct {
	http    *integrations.Client
	baseURL string
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
}

// WithBaseURL overrides the API root (default [DefaultBaseURL]).
// A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header (default [DefaultUserAgent]).
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithHTTPClient sets the underlying HTTP client, e.g. to change the timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger attaches a logger for debug output. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewClient creates a crates.io client.
//
// The returned Client is safe for concurrent use.
func NewClient(opts ...Option) *Client {
	o := options{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	headers := map[string]string{
		"User-Agent": o.userAgent,
		"Accept":     "application/json",
	}
	return &Client{
		http:    integrations.NewClient(o.httpClient, headers),
		baseURL: o.baseURL,
		logger:  o.logger,
	}
}

// BaseURL returns the API root the client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchCrate retrieves the full metadata record of a crate.
//
// The name is sent as a single path segment without any local validation;
// the registry decides what is valid. The three outcomes are:
//
//   - (details, true, nil): the crate exists.
//   - (nil, false, nil): the registry answered with its "Not Found" error.
//   - (nil, false, err): err is a [*TransportError] if no answer could be
//     identified, or an [*APIError] carrying the registry's error details.
//
// This method is safe for concurrent use.
func (c *Client) FetchCrate(ctx context.Context, name string) (*CrateDetails, bool, error) {
	hooks := observability.Query()
	hooks.OnQueryStart(ctx, name)
	start := time.Now()

	details, found, err := c.fetch(ctx, name)

	elapsed := time.Since(start)
	outcome := outcomeOf(found, err)
	hooks.OnQueryComplete(ctx, name, outcome, elapsed, err)
	c.logger.Debug("crate query", "crate", name, "outcome", outcome, "elapsed", elapsed.Round(time.Millisecond))

	return details, found, err
}

// LatestVersionOf fetches a crate and applies [LatestVersion] to it.
// A missing crate and a crate without any non-yanked version both yield
// found == false with a nil error. Errors from [Client.FetchCrate] are
// returned unchanged.
func (c *Client) LatestVersionOf(ctx context.Context, name string) (Release, bool, error) {
	details, found, err := c.FetchCrate(ctx, name)
	if err != nil || !found {
		return Release{}, false, err
	}
	rel, ok := LatestVersion(details)
	return rel, ok, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*CrateDetails, bool, error) {
	resp, err := c.http.Fetch(ctx, c.crateURL(name))
	if err != nil {
		return nil, false, &TransportError{Crate: name, Err: err}
	}

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		if !resp.OK() {
			err = fmt.Errorf("unexpected status %d: %w", resp.StatusCode, err)
		}
		return nil, false, &TransportError{Crate: name, Err: err}
	}

	if env.found != nil {
		return env.found, true, nil
	}
	if isAbsenceSignal(env.errors) {
		return nil, false, nil
	}
	return nil, false, &APIError{Crate: name, Details: env.errors}
}

func (c *Client) crateURL(name string) string {
	return fmt.Sprintf("%s/crates/%s", c.baseURL, url.PathEscape(name))
}

func outcomeOf(found bool, err error) observability.Outcome {
	var apiErr *APIError
	switch {
	case err == nil && found:
		return observability.OutcomeFound
	case err == nil:
		return observability.OutcomeNotFound
	case errors.As(err, &apiErr):
		return observability.OutcomeAPIError
	default:
		return observability.OutcomeTransport
	}
}
