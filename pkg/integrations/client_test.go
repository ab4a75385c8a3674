package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/crateinfo/pkg/observability"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "test/1.0"}
	client := NewClient(nil, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.http.Timeout, httpTimeout)
	}
	if client.headers["User-Agent"] != "test/1.0" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilHeaders(t *testing.T) {
	client := NewClient(nil, nil)
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientFetch(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"message":"hello"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), map[string]string{"User-Agent": "test/1.0"})

	resp, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("OK() = false for status %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":"hello"}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if gotAgent != "test/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotAgent, "test/1.0")
	}
}

func TestClientFetchNon2xxIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"detail":"Not Found"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)

	resp, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if resp.OK() {
		t.Error("OK() = true for 404")
	}
	if !strings.Contains(string(resp.Body), "Not Found") {
		t.Errorf("Body = %q, want error envelope", resp.Body)
	}
}

func TestClientFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, nil)
	_, err := client.Fetch(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Fetch() error = %v, want ErrNetwork", err)
	}
}

func TestClientFetchBodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1<<20)
		for written := int64(0); written <= MaxBodyBytes; written += int64(len(chunk)) {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)
	_, err := client.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("Fetch() error = %v, want ErrBodyTooLarge", err)
	}
}

func TestClientFetchReportsHooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	client := NewClient(server.Client(), nil)
	if _, err := client.Fetch(context.Background(), server.URL+"/api/v1/crates/serde"); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 {
		t.Errorf("requests = %d, want 1", hooks.requests)
	}
	if hooks.lastPath != "/api/v1/crates/serde" {
		t.Errorf("path = %q", hooks.lastPath)
	}
	if hooks.lastStatus != http.StatusTeapot {
		t.Errorf("status = %d, want %d", hooks.lastStatus, http.StatusTeapot)
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"https url", "https://github.com/user/repo", "https://github.com/user/repo"},
		{"with .git suffix", "https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git@ to https", "git@github.com:user/repo", "https://github.com/user/repo"},
		{"git:// to https", "git://github.com/user/repo", "https://github.com/user/repo"},
		{"git+ prefix", "git+https://github.com/user/repo", "https://github.com/user/repo"},
		{"gitlab ssh", "git@gitlab.com:user/repo.git", "https://gitlab.com/user/repo"},
		{"trailing slash", "https://github.com/serde-rs/serde/", "https://github.com/serde-rs/serde"},
		{"with spaces", "  https://github.com/user/repo  ", "https://github.com/user/repo"},
		{"combined", "git+git@github.com:user/repo.git", "https://github.com/user/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRepoURL(tt.input); got != tt.want {
				t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	if got := NewHTTPClient(0).Timeout; got != httpTimeout {
		t.Errorf("Timeout = %v, want %v", got, httpTimeout)
	}
	if got := NewHTTPClient(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", got)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu         sync.Mutex
	requests   int
	lastPath   string
	lastStatus int
}

func (h *recordingHooks) OnRequest(_ context.Context, _, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	h.lastPath = path
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastStatus = status
}
