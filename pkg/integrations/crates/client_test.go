package crates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/crateinfo/pkg/integrations"
	"github.com/matzehuels/crateinfo/pkg/observability"
)

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c.http == nil {
		t.Error("expected transport to be initialized")
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if c.logger == nil {
		t.Error("expected default logger")
	}
}

func TestWithBaseURLTrimsSlash(t *testing.T) {
	c := NewClient(WithBaseURL("http://mirror.local/api/v1/"))
	if c.BaseURL() != "http://mirror.local/api/v1" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if got := c.crateURL("serde"); got != "http://mirror.local/api/v1/crates/serde" {
		t.Errorf("crateURL() = %q", got)
	}
}

func TestClient_FetchCrate(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write(readTestdata(t, "adhesion.json"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	details, found, err := c.FetchCrate(context.Background(), "adhesion")
	if err != nil {
		t.Fatalf("FetchCrate failed: %v", err)
	}
	if !found {
		t.Fatal("expected crate to be found")
	}
	if gotPath != "/crates/adhesion" {
		t.Errorf("path = %q, want /crates/adhesion", gotPath)
	}
	if gotAgent != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, DefaultUserAgent)
	}

	cr := details.Crate
	if cr.ID != "adhesion" || cr.Name != "adhesion" {
		t.Errorf("identity = %q/%q", cr.ID, cr.Name)
	}
	if cr.MaxVersion != "0.5.1" {
		t.Errorf("MaxVersion = %q, want 0.5.1", cr.MaxVersion)
	}
	if cr.Downloads != 3911 {
		t.Errorf("Downloads = %d, want 3911", cr.Downloads)
	}
	if cr.Homepage != nil {
		t.Errorf("Homepage = %q, want nil", *cr.Homepage)
	}
	if cr.Repository == nil || *cr.Repository != "https://github.com/ErichDonGubler/adhesion-rs" {
		t.Errorf("Repository = %v", cr.Repository)
	}
	if len(cr.VersionIDs) != 3 {
		t.Errorf("VersionIDs = %v", cr.VersionIDs)
	}
	if cr.CreatedAt.Year() != 2017 {
		t.Errorf("CreatedAt = %v", cr.CreatedAt)
	}
	if len(details.Versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(details.Versions))
	}
	if !details.Versions[0].Yanked {
		t.Error("expected first version to be yanked")
	}
	if got := details.Versions[1].Features["default"]; len(got) != 1 || got[0] != "std" {
		t.Errorf("features[default] = %v", got)
	}
	if details.Versions[2].CrateSize != nil {
		t.Errorf("CrateSize = %d, want nil", *details.Versions[2].CrateSize)
	}
	if len(details.Keywords) != 3 || len(details.Categories) != 2 {
		t.Errorf("keywords=%d categories=%d", len(details.Keywords), len(details.Categories))
	}
	// travis-ci, appveyor and the unknown provider survive; the travis-ci
	// entry without a repository is dropped.
	if len(cr.Badges) != 3 {
		t.Errorf("expected 3 badges, got %d", len(cr.Badges))
	}
}

func TestClient_FetchCrate_ToleratesExtraFieldsAndNulls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(readTestdata(t, "serde.json"))
	}))
	defer server.Close()

	details, found, err := testClient(t, server.URL).FetchCrate(context.Background(), "serde")
	if err != nil || !found {
		t.Fatalf("FetchCrate = %v, %v", found, err)
	}
	if details.Crate.Homepage == nil || *details.Crate.Homepage != "https://serde.rs" {
		t.Errorf("Homepage = %v", details.Crate.Homepage)
	}
	if details.Crate.Badges != nil {
		t.Errorf("Badges = %v, want nil", details.Crate.Badges)
	}
	if details.Versions[2].License != "" {
		t.Errorf("License = %q, want empty for null", details.Versions[2].License)
	}
}

func TestClient_FetchCrate_NotFound(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write(readTestdata(t, "not_found.json"))
			}))
			defer server.Close()

			details, found, err := testClient(t, server.URL).FetchCrate(context.Background(), "@")
			if err != nil {
				t.Fatalf("expected no error for missing crate, got %v", err)
			}
			if found || details != nil {
				t.Errorf("FetchCrate = %v, %v; want nil, false", details, found)
			}
		})
	}
}

func TestClient_FetchCrate_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		details []string
	}{
		{"multiple details", "multi_error.json", []string{"invalid crate name", "cannot request more than 100 items"}},
		{"different wording", "forbidden.json", []string{"Forbidden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(readTestdata(t, tt.file))
			}))
			defer server.Close()

			_, found, err := testClient(t, server.URL).FetchCrate(context.Background(), "x")
			if found {
				t.Error("expected found = false")
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if len(apiErr.Details) != len(tt.details) {
				t.Fatalf("Details = %v, want %v", apiErr.Details, tt.details)
			}
			for i, want := range tt.details {
				if apiErr.Details[i].Detail != want {
					t.Errorf("Details[%d] = %q, want %q", i, apiErr.Details[i].Detail, want)
				}
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error message %q does not mention %q", err.Error(), want)
				}
			}
		})
	}
}

func TestClient_FetchCrate_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantSchema bool
		wantInMsg  string
	}{
		{"invalid json", http.StatusOK, `{"crate":`, false, "decode response"},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, false, "unexpected status 502"},
		{"neither shape", http.StatusOK, `{"ok":true}`, true, "neither"},
		{"both shapes", http.StatusOK, `{"crate":{"id":"x"},"errors":[{"detail":"Not Found"}]}`, true, "both"},
		{"empty errors", http.StatusOK, `{"errors":[]}`, true, "empty"},
		{"wrong crate type", http.StatusOK, `{"crate":"serde"}`, false, "decode crate"},
		{"bad timestamp", http.StatusOK, `{"crate":{"id":"x","created_at":"yesterday"}}`, false, "decode crate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, found, err := testClient(t, server.URL).FetchCrate(context.Background(), "x")
			if found {
				t.Error("expected found = false")
			}
			var trErr *TransportError
			if !errors.As(err, &trErr) {
				t.Fatalf("expected *TransportError, got %T: %v", err, err)
			}
			if trErr.Crate != "x" {
				t.Errorf("Crate = %q, want x", trErr.Crate)
			}
			if errors.Is(err, ErrSchemaMismatch) != tt.wantSchema {
				t.Errorf("errors.Is(ErrSchemaMismatch) = %v, want %v", !tt.wantSchema, tt.wantSchema)
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestClient_FetchCrate_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, _, err := testClient(t, url).FetchCrate(context.Background(), "serde")
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("expected ErrNetwork in chain: %v", err)
	}
}

func TestClient_FetchCrate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	_, _, err := c.FetchCrate(context.Background(), "slow")
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestClient_FetchCrate_EscapesName(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write(readTestdata(t, "not_found.json"))
	}))
	defer server.Close()

	if _, _, err := testClient(t, server.URL).FetchCrate(context.Background(), "a/b c"); err != nil {
		t.Fatalf("FetchCrate failed: %v", err)
	}
	if gotPath != "/crates/a%2Fb%20c" {
		t.Errorf("path = %q, want /crates/a%%2Fb%%20c", gotPath)
	}
}

func TestClient_LatestVersionOf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crates/adhesion":
			w.Write(readTestdata(t, "adhesion.json"))
		case "/crates/forbidden":
			w.Write(readTestdata(t, "forbidden.json"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write(readTestdata(t, "not_found.json"))
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	ctx := context.Background()

	rel, ok, err := c.LatestVersionOf(ctx, "adhesion")
	if err != nil || !ok {
		t.Fatalf("LatestVersionOf = %v, %v", ok, err)
	}
	if rel.CrateID != "adhesion" || rel.Version.Num != "0.5.0" {
		t.Errorf("got %s@%s, want adhesion@0.5.0", rel.CrateID, rel.Version.Num)
	}

	_, ok, err = c.LatestVersionOf(ctx, "missing")
	if err != nil || ok {
		t.Errorf("missing crate: ok=%v err=%v; want false, nil", ok, err)
	}

	_, ok, err = c.LatestVersionOf(ctx, "forbidden")
	var apiErr *APIError
	if ok || !errors.As(err, &apiErr) {
		t.Errorf("forbidden crate: ok=%v err=%v; want false, *APIError", ok, err)
	}
}

func TestClient_FetchCrate_Idempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(readTestdata(t, "adhesion.json"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	first, _, err := c.FetchCrate(context.Background(), "adhesion")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, found, err := c.FetchCrate(context.Background(), "adhesion")
			if err != nil || !found {
				errs <- err
				return
			}
			if again.Crate.ID != first.Crate.ID || len(again.Versions) != len(first.Versions) {
				errs <- errors.New("structurally different result")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent FetchCrate: %v", err)
	}
}

func TestClient_FetchCrate_ReportsOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crates/adhesion":
			w.Write(readTestdata(t, "adhesion.json"))
		case "/crates/forbidden":
			w.Write(readTestdata(t, "forbidden.json"))
		case "/crates/broken":
			w.Write([]byte("not json"))
		default:
			w.Write(readTestdata(t, "not_found.json"))
		}
	}))
	defer server.Close()

	hooks := &outcomeHooks{outcomes: map[string]observability.Outcome{}}
	observability.SetQueryHooks(hooks)
	defer observability.Reset()

	c := testClient(t, server.URL)
	for _, name := range []string{"adhesion", "missing", "forbidden", "broken"} {
		c.FetchCrate(context.Background(), name)
	}

	want := map[string]observability.Outcome{
		"adhesion":  observability.OutcomeFound,
		"missing":   observability.OutcomeNotFound,
		"forbidden": observability.OutcomeAPIError,
		"broken":    observability.OutcomeTransport,
	}
	for name, outcome := range want {
		if got := hooks.outcomes[name]; got != outcome {
			t.Errorf("outcome[%s] = %q, want %q", name, got, outcome)
		}
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(WithBaseURL(serverURL))
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read testdata %s: %v", name, err)
	}
	return data
}

type outcomeHooks struct {
	observability.NoopQueryHooks
	mu       sync.Mutex
	outcomes map[string]observability.Outcome
}

func (h *outcomeHooks) OnQueryComplete(_ context.Context, crate string, o observability.Outcome, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes[crate] = o
}
