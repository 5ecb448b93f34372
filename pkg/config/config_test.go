package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onepagerhq/onepager/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Page.WidthMM != 420 || cfg.Page.HeightMM != 297 {
		t.Errorf("page = %gx%g, want 420x297", cfg.Page.WidthMM, cfg.Page.HeightMM)
	}
	if cfg.Grid.ColumnCount != 2 {
		t.Errorf("column count = %d, want 2", cfg.Grid.ColumnCount)
	}
	if cfg.Grid.SectionGapMM != 8 {
		t.Errorf("section gap = %g, want 8", cfg.Grid.SectionGapMM)
	}
	if cfg.HeaderHeightMM != 25 || cfg.FooterHeightMM != 12 {
		t.Errorf("bands = %g/%g, want 25/12", cfg.HeaderHeightMM, cfg.FooterHeightMM)
	}
	if cfg.AutoShrink.MinFontSizePt != 8 {
		t.Errorf("auto-shrink floor = %d, want 8", cfg.AutoShrink.MinFontSizePt)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg != Default() {
		t.Error("Load() with missing file should return defaults")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onepager.toml")
	data := []byte("[page]\nwidth_mm = 297\nheight_mm = 210\n\n[grid]\ncolumn_gap_mm = 6\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Page.WidthMM != 297 || cfg.Page.HeightMM != 210 {
		t.Errorf("page = %gx%g, want 297x210", cfg.Page.WidthMM, cfg.Page.HeightMM)
	}
	if cfg.Grid.ColumnGapMM != 6 {
		t.Errorf("column gap = %g, want 6", cfg.Grid.ColumnGapMM)
	}
	// Untouched values keep their defaults.
	if cfg.Grid.ColumnCount != 2 {
		t.Errorf("column count = %d, want default 2", cfg.Grid.ColumnCount)
	}
	if cfg.Colors.Primary != "#2B6CB0" {
		t.Errorf("primary color = %q, want default", cfg.Colors.Primary)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[page\nwidth"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() = %v, want INVALID_CONFIG", err)
	}
}

func TestValidateRejectsContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page width", func(c *Config) { c.Page.WidthMM = 0 }},
		{"negative page height", func(c *Config) { c.Page.HeightMM = -10 }},
		{"zero columns", func(c *Config) { c.Grid.ColumnCount = 0 }},
		{"negative column gap", func(c *Config) { c.Grid.ColumnGapMM = -1 }},
		{"negative margin", func(c *Config) { c.Margins.LeftMM = -5 }},
		{"margins consume width", func(c *Config) { c.Margins.LeftMM = 250; c.Margins.RightMM = 250 }},
		{"bands consume height", func(c *Config) { c.HeaderHeightMM = 300 }},
		{"zero shrink floor", func(c *Config) { c.AutoShrink.MinFontSizePt = 0 }},
		{"zero shrink step", func(c *Config) { c.AutoShrink.ShrinkStepPt = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
