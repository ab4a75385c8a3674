package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cerrors "github.com/matzehuels/crateinfo/pkg/errors"
	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
)

const shutdownTimeout = 10 * time.Second

// Fetcher retrieves crate metadata. *crates.Client implements it.
type Fetcher interface {
	FetchCrate(ctx context.Context, name string) (*crates.CrateDetails, bool, error)
}

// Server serves crate lookups backed by a Fetcher.
type Server struct {
	fetcher Fetcher
	logger  *log.Logger
	router  chi.Router
}

// New builds a Server and its routes. A nil logger discards output.
func New(f Fetcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{fetcher: f, logger: logger, router: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1/crates/{name}", func(r chi.Router) {
		r.Get("/", s.getCrate)
		r.Get("/latest", s.getLatest)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. If ready is non-nil it receives the bound address once the
// listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCrate(w http.ResponseWriter, r *http.Request) {
	name, ok := crateParam(w, r)
	if !ok {
		return
	}

	details, found, err := s.fetcher.FetchCrate(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodePackageNotFound, "crate %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) getLatest(w http.ResponseWriter, r *http.Request) {
	name, ok := crateParam(w, r)
	if !ok {
		return
	}

	var selectLatest func(*crates.CrateDetails) (crates.Release, bool)
	switch order := r.URL.Query().Get("order"); order {
	case "", "registry":
		selectLatest = crates.LatestVersion
	case "date":
		selectLatest = crates.LatestVersionByDate
	default:
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "unknown order %q (want registry or date)", order))
		return
	}

	details, found, err := s.fetcher.FetchCrate(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodePackageNotFound, "crate %q not found", name))
		return
	}
	rel, ok := selectLatest(details)
	if !ok {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodePackageNotFound, "crate %q has no non-yanked version", name))
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// crateParam returns the {name} segment. chi matches against the escaped
// path when one exists, so the segment is unescaped here.
func crateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, true
	}
	unescaped, err := url.PathUnescape(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorPayload{Code: cerrors.ErrCodeInvalidInput, Message: "malformed crate name"},
		})
		return "", false
	}
	return unescaped, true
}

// =============================================================================
// Responses
// =============================================================================

type errorPayload struct {
	Code    cerrors.Code `json:"code"`
	Message string       `json:"message"`
	Details []string     `json:"details,omitempty"`
}

type errorBody struct {
	Error     errorPayload `json:"error"`
	RequestID string       `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := cerrors.Classify(err)
	status := cerrors.HTTPStatus(code)

	body := errorBody{
		Error:     errorPayload{Code: code, Message: cerrors.UserMessage(err)},
		RequestID: RequestIDFrom(r.Context()),
	}
	var apiErr *crates.APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details {
			body.Error.Details = append(body.Error.Details, d.Detail)
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("crate lookup failed", "code", code, "err", err, "request_id", body.RequestID)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
