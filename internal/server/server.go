// Package server exposes the page pipeline and a layout store as an HTTP API.
//
// Routes:
//
//	GET    /healthz                 liveness probe
//	GET    /version                 build information
//	POST   /api/generate            text -> content description
//	POST   /api/layout              content description -> layout
//	POST   /api/render              layout -> artifact (format query param)
//	POST   /api/pages               full pipeline, persists the result
//	GET    /api/pages               list saved pages (newest first)
//	GET    /api/pages/{id}          fetch a saved page
//	GET    /api/pages/{id}/render   render a saved page (format query param)
//	DELETE /api/pages/{id}          delete a saved page
//
// All request and response bodies are JSON except /api/render and
// /api/pages/{id}/render, which return the raw artifact bytes with a
// matching Content-Type.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/onepagerhq/onepager/pkg/buildinfo"
	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/pipeline"
	"github.com/onepagerhq/onepager/pkg/store"
)

// maxBodyBytes caps request bodies to keep hostile payloads out of the
// JSON decoder.
const maxBodyBytes = 1 << 20

// Server handles HTTP requests against the page pipeline.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    config.Config
	apiKey string
	logger *log.Logger
}

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Config config.Config
	APIKey string
	Logger *log.Logger
}

// New creates a Server. A nil store disables the /api/pages routes'
// persistence and is replaced with an in-memory store.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		runner: opts.Runner,
		store:  opts.Store,
		cfg:    opts.Config,
		apiKey: opts.APIKey,
		logger: opts.Logger,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/pages", func(r chi.Router) {
			r.Post("/", s.handleCreatePage)
			r.Get("/", s.handleListPages)
			r.Get("/{id}", s.handleGetPage)
			r.Get("/{id}/render", s.handleRenderPage)
			r.Delete("/{id}", s.handleDeletePage)
		})
	})

	return r
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// =============================================================================
// JSON Helpers
// =============================================================================

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error's code to an HTTP status and writes the envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidContent, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTemplate:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeTemplateNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case errors.ErrCodeProviderKeyMissing:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeProvider, errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown payloads
// larger than maxBodyBytes.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// contentTypeFor returns the Content-Type header for a render format.
func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	default:
		return "application/json; charset=utf-8"
	}
}
