// Package pipeline provides the core page-production pipeline.
//
// This package implements the complete generate → layout → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// behavior stays consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Turn free-form text into a structured content description
//  2. Layout: Compute positioned boxes for every section on the page
//  3. Render: Produce output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline;
// starting from existing content JSON skips the generate stage entirely.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "notes from the architecture review ...",
//	    APIKey:  os.Getenv("ONEPAGER_API_KEY"),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/generate"
	"github.com/onepagerhq/onepager/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// Options contains all configuration for the page pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options. Input is free-form source text; ContentJSON is a
	// ready content description that skips the generate stage.
	Input       string `json:"input,omitempty"`
	ContentJSON string `json:"content_json,omitempty"`
	Model       string `json:"model,omitempty"`

	// Layout options
	TemplateID  string `json:"template_id,omitempty"` // overrides the document's template
	TemplateDir string `json:"template_dir,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Grid    bool     `json:"grid,omitempty"` // debug overlay in SVG output
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cached stage results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Config   *config.Config    `json:"-"`
	APIKey   string            `json:"-"`
	Provider generate.Provider `json:"-"` // overrides key-based provider selection
	Logger   *log.Logger       `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Content is the content description the layout was built from.
	Content content.Document

	// ContentHash is the content hash of the description.
	ContentHash string

	// Layout is the positioned page.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SectionCount int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the content description came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks required fields for the generate stage.
func (o *Options) ValidateForGenerate() error {
	if o.Input == "" && o.ContentJSON == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input or content_json is required")
	}
	o.setRuntimeDefaults()
	if o.Model == "" {
		o.Model = o.Config.Generate.DefaultModel
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.setRuntimeDefaults()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.setRuntimeDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	return ValidateFormats(o.Formats)
}

// NeedsGenerate reports whether the generate stage will run.
func (o *Options) NeedsGenerate() bool {
	return o.ContentJSON == ""
}

func (o *Options) setRuntimeDefaults() {
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TemplateStore builds the template store for this run: an operator
// directory (when configured) chained in front of the built-ins.
func (o *Options) TemplateStore() layout.Store {
	if o.TemplateDir != "" {
		return layout.NewChainStore(layout.NewDirStore(o.TemplateDir), layout.NewEmbeddedStore())
	}
	return layout.NewEmbeddedStore()
}
