package cache

import (
	"github.com/onepagerhq/onepager/pkg/config"
)

// Keyer derives cache keys for the pipeline stages. Every key folds in
// the inputs that change the stage's output, so a config or model change
// invalidates naturally instead of serving stale artifacts.
type Keyer interface {
	// GenerateKey keys a provider response by provider, model, and input
	// text.
	GenerateKey(provider, model, input string) string

	// LayoutKey keys a computed layout by the content description and the
	// geometry-affecting configuration.
	LayoutKey(contentJSON []byte, cfg config.Config) string

	// ArtifactKey keys a rendered artifact by the layout, the output
	// format, and the drawing palette.
	ArtifactKey(layoutJSON []byte, format string, colors config.Colors) string
}

// DefaultKeyer hashes stage inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GenerateKey(provider, model, input string) string {
	return hashKey("generate", provider, model, input)
}

func (DefaultKeyer) LayoutKey(contentJSON []byte, cfg config.Config) string {
	return hashKey("layout", string(contentJSON),
		cfg.Page, cfg.Margins, cfg.HeaderHeightMM, cfg.FooterHeightMM,
		cfg.Grid, cfg.Typography, cfg.AutoShrink)
}

func (DefaultKeyer) ArtifactKey(layoutJSON []byte, format string, colors config.Colors) string {
	return hashKey("artifact", string(layoutJSON), format, colors)
}

var _ Keyer = DefaultKeyer{}
