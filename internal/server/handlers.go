package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/layout"
	"github.com/onepagerhq/onepager/pkg/pipeline"
	"github.com/onepagerhq/onepager/pkg/store"
)

// defaultListLimit caps /api/pages listings when no limit is given.
const defaultListLimit = 50

// =============================================================================
// Pipeline Stages
// =============================================================================

// generateRequest is the body for POST /api/generate.
type generateRequest struct {
	Input   string `json:"input"`
	Model   string `json:"model,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// generateResponse wraps the generated content description.
type generateResponse struct {
	Content content.Document `json:"content"`
	Cached  bool             `json:"cached"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	opts.Input = req.Input
	opts.Model = req.Model
	opts.Refresh = req.Refresh
	if err := opts.ValidateForGenerate(); err != nil {
		s.writeError(w, err)
		return
	}

	doc, cached, err := s.runner.GenerateWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Content: doc, Cached: cached})
}

// layoutRequest is the body for POST /api/layout.
type layoutRequest struct {
	Content    content.Document `json:"content"`
	TemplateID string           `json:"template_id,omitempty"`
	Refresh    bool             `json:"refresh,omitempty"`
}

// layoutResponse wraps the computed layout.
type layoutResponse struct {
	Layout layout.Layout `json:"layout"`
	Cached bool          `json:"cached"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Content.Sections) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidContent, "content has no sections"))
		return
	}

	opts := s.pipelineOptions()
	opts.TemplateID = req.TemplateID
	opts.Refresh = req.Refresh
	opts.SetLayoutDefaults()

	l, cached, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Content, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: cached})
}

// handleRender renders a layout posted as the request body. The format is
// selected with the ?format= query parameter (default svg).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var l layout.Layout
	if err := decodeJSON(r, &l); err != nil {
		s.writeError(w, err)
		return
	}
	s.renderLayout(w, r, l)
}

// renderLayout renders l to the format requested in the query string and
// writes the raw artifact.
func (s *Server) renderLayout(w http.ResponseWriter, r *http.Request, l layout.Layout) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	opts.Formats = []string{format}
	opts.Grid = r.URL.Query().Get("grid") == "true"
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale: %q", v))
			return
		}
		opts.Scale = scale
	}
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, err)
		return
	}

	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Pages
// =============================================================================

// createPageRequest is the body for POST /api/pages. It mirrors the
// serializable pipeline options.
type createPageRequest struct {
	Input       string `json:"input,omitempty"`
	ContentJSON string `json:"content_json,omitempty"`
	Model       string `json:"model,omitempty"`
	TemplateID  string `json:"template_id,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	opts.Input = req.Input
	opts.ContentJSON = req.ContentJSON
	opts.Model = req.Model
	opts.TemplateID = req.TemplateID
	opts.Refresh = req.Refresh
	opts.Formats = []string{pipeline.FormatJSON}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.store.Save(r.Context(), store.Record{
		Content: result.Content,
		Layout:  result.Layout,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.renderLayout(w, r, rec.Layout)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pipelineOptions seeds pipeline options with the server's runtime state.
func (s *Server) pipelineOptions() pipeline.Options {
	cfg := s.cfg
	return pipeline.Options{
		Config: &cfg,
		APIKey: s.apiKey,
		Logger: s.logger,
	}
}
