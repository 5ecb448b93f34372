// Package config provides application configuration for the layout engine.
//
// Configuration is loaded from a TOML file and merged over built-in
// defaults, so a config file only needs to state what it changes. All
// lengths are millimeters, all font sizes are points.
//
// The engine is a pure function of this configuration plus the content
// description: changing values here moves geometry and heights, never
// algorithms.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/onepagerhq/onepager/pkg/errors"
)

// Page describes the fixed output canvas.
type Page struct {
	WidthMM         float64 `toml:"width_mm"`
	HeightMM        float64 `toml:"height_mm"`
	BackgroundColor string  `toml:"background_color"`
}

// Margins describes the outer page margins.
type Margins struct {
	TopMM    float64 `toml:"top_mm"`
	BottomMM float64 `toml:"bottom_mm"`
	LeftMM   float64 `toml:"left_mm"`
	RightMM  float64 `toml:"right_mm"`
}

// Grid describes the column grid for the content area.
type Grid struct {
	ColumnCount  int     `toml:"column_count"`
	ColumnGapMM  float64 `toml:"column_gap_mm"`
	SectionGapMM float64 `toml:"section_gap_mm"`
}

// Colors is the palette used by the renderer.
type Colors struct {
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Background string `toml:"background"`
	AccentBG   string `toml:"accent_bg"`
	Border     string `toml:"border"`
	Alert      string `toml:"alert"`
}

// Typography holds the font family and the per-role sizes in points.
type Typography struct {
	FontFamily      string `toml:"font_family"`
	TitleSize       int    `toml:"title_size"`
	SectionHeadSize int    `toml:"section_header_size"`
	BodySize        int    `toml:"body_size"`
	FooterSize      int    `toml:"footer_size"`
	TableHeaderSize int    `toml:"table_header_size"`
	TableBodySize   int    `toml:"table_body_size"`
}

// AutoShrink configures the font-fit search.
type AutoShrink struct {
	MinFontSizePt int `toml:"min_font_size_pt"`
	ShrinkStepPt  int `toml:"shrink_step_pt"`
}

// Generate configures the text-to-structure boundary.
type Generate struct {
	DefaultModel  string `toml:"default_model"`
	MaxRetries    int    `toml:"max_retries"`
	MaxInputChars int    `toml:"max_input_chars"`
}

// Config is the complete application configuration.
type Config struct {
	Page           Page       `toml:"page"`
	Margins        Margins    `toml:"margins"`
	HeaderHeightMM float64    `toml:"header_height_mm"`
	FooterHeightMM float64    `toml:"footer_height_mm"`
	Grid           Grid       `toml:"grid"`
	Colors         Colors     `toml:"colors"`
	Typography     Typography `toml:"typography"`
	AutoShrink     AutoShrink `toml:"auto_shrink"`
	Generate       Generate   `toml:"generate"`
}

// Default returns the built-in configuration: an A3 landscape page with a
// two-column grid and the standard palette.
func Default() Config {
	return Config{
		Page: Page{
			WidthMM:         420,
			HeightMM:        297,
			BackgroundColor: "#FFFFFF",
		},
		Margins: Margins{
			TopMM:    10,
			BottomMM: 10,
			LeftMM:   15,
			RightMM:  15,
		},
		HeaderHeightMM: 25,
		FooterHeightMM: 12,
		Grid: Grid{
			ColumnCount:  2,
			ColumnGapMM:  10,
			SectionGapMM: 8,
		},
		Colors: Colors{
			Primary:    "#2B6CB0",
			Secondary:  "#4A5568",
			Background: "#FFFFFF",
			AccentBG:   "#EBF8FF",
			Border:     "#E2E8F0",
			Alert:      "#C53030",
		},
		Typography: Typography{
			FontFamily:      "Helvetica",
			TitleSize:       28,
			SectionHeadSize: 18,
			BodySize:        14,
			FooterSize:      10,
			TableHeaderSize: 12,
			TableBodySize:   11,
		},
		AutoShrink: AutoShrink{
			MinFontSizePt: 8,
			ShrinkStepPt:  1,
		},
		Generate: Generate{
			DefaultModel:  "gemini-2.0-flash",
			MaxRetries:    3,
			MaxInputChars: 10000,
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file is not an error: the defaults are returned unchanged.
// The result is validated before being returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for contract violations. Non-positive
// dimensions and a degenerate grid are the one class of input the engine
// refuses rather than defaults: computing geometry from them would produce
// nonsensical coordinates.
func (c Config) Validate() error {
	if c.Page.WidthMM <= 0 || c.Page.HeightMM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"page size must be positive, got %gx%g mm", c.Page.WidthMM, c.Page.HeightMM)
	}
	if c.Margins.TopMM < 0 || c.Margins.BottomMM < 0 || c.Margins.LeftMM < 0 || c.Margins.RightMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins must not be negative")
	}
	if c.HeaderHeightMM < 0 || c.FooterHeightMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "header/footer heights must not be negative")
	}
	if c.Grid.ColumnCount < 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"column count must be at least 1, got %d", c.Grid.ColumnCount)
	}
	if c.Grid.ColumnGapMM < 0 || c.Grid.SectionGapMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid gaps must not be negative")
	}
	if c.Page.WidthMM-c.Margins.LeftMM-c.Margins.RightMM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins leave no horizontal content area")
	}
	if c.Page.HeightMM-c.Margins.TopMM-c.Margins.BottomMM-c.HeaderHeightMM-c.FooterHeightMM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins and bands leave no vertical content area")
	}
	if c.AutoShrink.MinFontSizePt < 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"auto-shrink floor must be at least 1pt, got %d", c.AutoShrink.MinFontSizePt)
	}
	if c.AutoShrink.ShrinkStepPt < 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"auto-shrink step must be at least 1pt, got %d", c.AutoShrink.ShrinkStepPt)
	}
	return nil
}
