package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// MaxBodyBytes caps how much of a response body is read into memory.
const MaxBodyBytes int64 = 32 << 20

var (
	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, truncated bodies).
	ErrNetwork = errors.New("network error")

	// ErrBodyTooLarge is returned when a response body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("response body too large")
)

// NewHTTPClient creates an HTTP client for registry requests.
// A timeout of zero or less selects the standard 10 second timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"git@gitlab.com:", "https://gitlab.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes and
// trailing slashes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}
