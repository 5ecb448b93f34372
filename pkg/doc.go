// Package pkg provides the core libraries for the onepager layout engine.
//
// # Overview
//
// onepager turns a semi-structured content description (title, subtitle,
// typed sections, footer) into a fully positioned layout for a single
// fixed-size A3 landscape page, and renders it. The pkg directory is
// organized around the pipeline stages:
//
//	Memo text (optional)
//	         ↓
//	    [generate] package (LLM provider boundary → content description)
//	         ↓
//	    [content] package (document types + post-processing limits)
//	         ↓
//	    [layout] package (geometry, placement, per-type composition)
//	         ↓
//	    [render] package (SVG, and PNG/PDF via rsvg-convert)
//
// # Quick Start
//
// Lay out a content description and render it to SVG:
//
//	import (
//	    "github.com/onepagerhq/onepager/pkg/config"
//	    "github.com/onepagerhq/onepager/pkg/content"
//	    "github.com/onepagerhq/onepager/pkg/layout"
//	    "github.com/onepagerhq/onepager/pkg/render"
//	)
//
//	doc, _ := content.ReadDocumentFile("content.json")
//	cfg := config.Default()
//	l, _ := layout.Build(context.Background(), doc, cfg)
//	svg := render.RenderSVG(l, render.WithConfig(cfg))
//
// # Main Packages
//
// [layout] - The layout engine: page geometry, per-type height estimation,
// template resolution with automatic-flow fallback, section placement
// planning, per-type box composition, and the auto-shrink font fitter.
//
// [content] - Content description types with tolerant JSON decoding and
// post-processing limits (bullet/step caps, text truncation).
//
// [render] - SVG sink plus PNG/PDF conversion. Text boxes are sized with
// the auto-shrink fitter at render time.
//
// [generate] - External text-to-structure boundary. Providers (OpenAI,
// Anthropic, Gemini) are selected by API-key prefix and retried with
// exponential backoff.
//
// [config] - TOML configuration (page size, margins, grid, typography,
// colors, auto-shrink) with validated defaults.
//
// [pipeline] - Orchestration of generate → layout → render with caching,
// used by both the CLI and the HTTP API.
//
// [cache] - Cache interface with file, null, and Redis backends.
//
// [store] - Persisted layout archive (memory, MongoDB) for serve mode.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for pipeline, layout, and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Layout engine only
//	go test -run Example       # Examples only
package pkg
