package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onepagerhq/onepager/pkg/cache"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/errors"
	"github.com/onepagerhq/onepager/pkg/generate"
	"github.com/onepagerhq/onepager/pkg/layout"
	"github.com/onepagerhq/onepager/pkg/observability"
	"github.com/onepagerhq/onepager/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	generateStart := time.Now()
	doc, generateHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Content = doc
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.SectionCount = len(doc.Sections)
	result.CacheInfo.GenerateHit = generateHit

	if contentData, err := content.MarshalDocument(doc); err == nil {
		result.ContentHash = cache.Hash(contentData)
	}

	r.Logger.Info("content ready",
		"sections", len(doc.Sections),
		"template", doc.TemplateID,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"sections", len(l.Sections),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo produces the content description with caching and
// returns cache hit info. Supplied content JSON bypasses the provider and
// the cache entirely.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (content.Document, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return content.Document{}, false, err
	}
	r.applyLogger(&opts)

	if !opts.NeedsGenerate() {
		doc, err := content.UnmarshalDocument([]byte(opts.ContentJSON))
		if err != nil {
			return content.Document{}, false, errors.Wrap(errors.ErrCodeInvalidContent, err, "parse content")
		}
		return content.Process(doc), false, nil
	}

	provider := opts.Provider
	if provider == nil {
		var err error
		provider, err = generate.NewProvider(opts.APIKey, opts.Model)
		if err != nil {
			return content.Document{}, false, err
		}
	}

	cacheKey := r.Keyer.GenerateKey(provider.Name(), opts.Model, opts.Input)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := content.UnmarshalDocument(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	observability.Pipeline().OnGenerateStart(ctx, provider.Name(), opts.Model)
	start := time.Now()
	doc, err := generate.New(provider, opts.Config.Generate).Generate(ctx, opts.Input)
	observability.Pipeline().OnGenerateComplete(ctx, provider.Name(), opts.Model,
		len(doc.Sections), time.Since(start), err)
	if err != nil {
		return content.Document{}, false, err
	}

	if data, err := content.MarshalDocument(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGenerate)
		observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
	}

	return doc, false, nil
}

// Generate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (content.Document, error) {
	doc, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return doc, err
}

// LayoutWithCacheInfo computes the layout with caching and returns cache
// hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc content.Document, opts Options) (layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	if opts.TemplateID != "" {
		doc.TemplateID = opts.TemplateID
	}

	contentData, err := content.MarshalDocument(doc)
	if err != nil {
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(contentData, *opts.Config)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return cached, true, nil
			}
			// Corrupt entry: fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	observability.Pipeline().OnLayoutStart(ctx, doc.TemplateID, len(doc.Sections))
	start := time.Now()
	l, err := layout.Build(ctx, doc, *opts.Config, layout.WithTemplateStore(opts.TemplateStore()))
	observability.Pipeline().OnLayoutComplete(ctx, doc.TemplateID, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := layout.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, doc content.Document, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

// RenderWithCacheInfo produces artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache first.
	allCached := true
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutData, format, opts.Config.Colors)
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := r.renderFormats(ctx, l, layoutData, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutData, format, opts.Config.Colors)
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

func (r *Runner) renderFormats(ctx context.Context, l layout.Layout, layoutData []byte, opts Options) (map[string][]byte, error) {
	svgOpts := []render.SVGOption{render.WithConfig(*opts.Config)}
	if opts.Grid {
		svgOpts = append(svgOpts, render.WithGrid())
	}

	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			out[format] = layoutData
		case FormatSVG:
			out[format] = render.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err := render.RenderPNG(ctx, l,
				render.WithPNGSVGOptions(svgOpts...), render.WithScale(opts.Scale))
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatPDF:
			data, err := render.RenderPDF(ctx, l, render.WithPDFSVGOptions(svgOpts...))
			if err != nil {
				return nil, err
			}
			out[format] = data
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
