package layout

import (
	"github.com/onepagerhq/onepager/pkg/config"
)

// Box is an axis-aligned rectangle in page coordinates. Units are
// millimeters, origin at the top-left corner of the page.
type Box struct {
	X      float64 `json:"x_mm"`
	Y      float64 `json:"y_mm"`
	Width  float64 `json:"width_mm"`
	Height float64 `json:"height_mm"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Geometry is the fixed page partition for one run: the header and footer
// bands and the content columns between them. It is derived once from
// configuration and read-only afterwards.
type Geometry struct {
	PageWidthMM  float64
	PageHeightMM float64

	Header  Box
	Body    Box
	Footer  Box
	Columns []Box

	ColumnGapMM  float64
	SectionGapMM float64
}

// ColumnWidth returns the width of a single content column.
func (g Geometry) ColumnWidth() float64 {
	if len(g.Columns) == 0 {
		return 0
	}
	return g.Columns[0].Width
}

// Calculate derives the page geometry from configuration. The config is
// validated first; non-positive dimensions are a contract violation and
// return an INVALID_CONFIG error instead of nonsensical coordinates.
//
// Columns are laid out left to right, each spanning the full content
// height below the header band. By construction column i's right edge
// never crosses column i+1's left edge.
func Calculate(cfg config.Config) (Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}

	contentWidth := cfg.Page.WidthMM - cfg.Margins.LeftMM - cfg.Margins.RightMM
	contentHeight := cfg.Page.HeightMM - cfg.Margins.TopMM - cfg.Margins.BottomMM -
		cfg.HeaderHeightMM - cfg.FooterHeightMM

	n := cfg.Grid.ColumnCount
	colWidth := (contentWidth - cfg.Grid.ColumnGapMM*float64(n-1)) / float64(n)
	bodyTop := cfg.Margins.TopMM + cfg.HeaderHeightMM

	g := Geometry{
		PageWidthMM:  cfg.Page.WidthMM,
		PageHeightMM: cfg.Page.HeightMM,
		Header: Box{
			X:      cfg.Margins.LeftMM,
			Y:      cfg.Margins.TopMM,
			Width:  contentWidth,
			Height: cfg.HeaderHeightMM,
		},
		Body: Box{
			X:      cfg.Margins.LeftMM,
			Y:      bodyTop,
			Width:  contentWidth,
			Height: contentHeight,
		},
		Footer: Box{
			X:      cfg.Margins.LeftMM,
			Y:      cfg.Page.HeightMM - cfg.Margins.BottomMM - cfg.FooterHeightMM,
			Width:  contentWidth,
			Height: cfg.FooterHeightMM,
		},
		Columns:      make([]Box, n),
		ColumnGapMM:  cfg.Grid.ColumnGapMM,
		SectionGapMM: cfg.Grid.SectionGapMM,
	}

	for i := range n {
		g.Columns[i] = Box{
			X:      cfg.Margins.LeftMM + float64(i)*(colWidth+cfg.Grid.ColumnGapMM),
			Y:      bodyTop,
			Width:  colWidth,
			Height: contentHeight,
		}
	}

	return g, nil
}
