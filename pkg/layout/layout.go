package layout

import (
	"context"
	"encoding/json"
	"os"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/observability"
)

// PageSize is the physical page extent in millimeters.
type PageSize struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// HeaderLayout positions the page title band.
type HeaderLayout struct {
	Box
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// FooterLayout positions the footer band.
type FooterLayout struct {
	Box
	Note string `json:"note,omitempty"`
}

// Layout is the positioned form of a whole page: the complete, render-ready
// description a drawing backend consumes without further decisions.
type Layout struct {
	Page       PageSize        `json:"page"`
	TemplateID string          `json:"template_id,omitempty"`
	Header     HeaderLayout    `json:"header"`
	Footer     FooterLayout    `json:"footer"`
	Sections   []SectionLayout `json:"sections"`
}

type options struct {
	store Store
}

// Option adjusts layout building.
type Option func(*options)

// WithTemplateStore overrides the template store, default the embedded
// built-ins.
func WithTemplateStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// Build computes the full positioned layout for a document.
//
// Every input section produces exactly one section layout; content is never
// dropped or reordered beyond what the template flow dictates. Templates
// are advisory: a declared template id that does not resolve falls back to
// automatic flow, recorded via the layout hooks, and TemplateID in the
// result names only the template actually applied.
func Build(ctx context.Context, doc content.Document, cfg config.Config, opts ...Option) (Layout, error) {
	o := options{store: NewEmbeddedStore()}
	for _, opt := range opts {
		opt(&o)
	}

	geo, err := Calculate(cfg)
	if err != nil {
		return Layout{}, err
	}

	var tmpl *Template
	appliedID := ""
	if doc.TemplateID != "" {
		t, ok := o.store.Resolve(doc.TemplateID)
		if !ok {
			observability.Layout().OnTemplateFallback(ctx, doc.TemplateID)
		} else {
			tmpl = t
			appliedID = t.ID
		}
	}

	placements, indices := plan(ctx, doc.Sections, geo, tmpl)

	sections := make([]SectionLayout, 0, len(placements))
	for i, p := range placements {
		sections = append(sections, compose(doc.Sections[indices[i]], p))
	}

	return Layout{
		Page:       PageSize{WidthMM: geo.PageWidthMM, HeightMM: geo.PageHeightMM},
		TemplateID: appliedID,
		Header: HeaderLayout{
			Box:      geo.Header,
			Title:    doc.Title,
			Subtitle: doc.Subtitle,
		},
		Footer: FooterLayout{
			Box:  geo.Footer,
			Note: doc.FooterNote,
		},
		Sections: sections,
	}, nil
}

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout from JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}

// ReadLayoutFile loads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(path string, l Layout) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
