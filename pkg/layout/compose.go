package layout

import "github.com/onepagerhq/onepager/pkg/content"

// Composer constants, all in millimeters unless suffixed otherwise.
const (
	bulletTopOffsetMM   = 10.0
	bulletLineSpacingMM = 8.0
	bulletIndentMM      = 5.0

	tableInsetXMM  = 2.0
	tableTopMM     = 10.0
	tableRowMM     = 8.0
	stepHeightHMM  = 25.0
	stepGapHMM     = 5.0
	stepHeightVMM  = 18.0
	stepGapVMM     = 7.0
	kpiValueFontPT = 32
)

// Element is a positioned piece of text.
type Element struct {
	Text string `json:"text"`
	Box
}

// BulletLine is one laid-out bullet item.
type BulletLine struct {
	Text     string  `json:"text"`
	Indent   int     `json:"indent,omitempty"`
	X        float64 `json:"x_mm"`
	Y        float64 `json:"y_mm"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// TableLayout positions a table grid inside a section frame. Cells are
// uniform: every row is RowHeightMM tall and every column ColWidthMM wide.
type TableLayout struct {
	Box
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	RowHeightMM float64    `json:"row_height_mm"`
	ColWidthMM  float64    `json:"col_width_mm"`
}

// StepBox is one flowchart step, with a connector arrow toward the next
// step when one follows.
type StepBox struct {
	Text string `json:"text"`
	Box
	ArrowAfter bool `json:"arrow_after,omitempty"`
}

// KPILayout positions the big value of a KPI box plus its unit and label.
type KPILayout struct {
	Value       string `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Label       string `json:"label,omitempty"`
	ValueBox    Box    `json:"value_box"`
	ValueFontPT int    `json:"value_font_pt"`
}

// TextBody is the body area of a text block. Font sizing is the
// renderer's job: it runs the auto-shrink fit against this box at draw
// time.
type TextBody struct {
	Text string `json:"text"`
	Box
}

// SectionLayout is the fully positioned form of one section. Exactly one
// of the per-type fields is set, matching Type; unknown input types
// compose as text blocks but keep their original Type string.
type SectionLayout struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Column int    `json:"column"`
	Frame  Box    `json:"frame"`

	Header *Element `json:"header,omitempty"`

	Bullets   []BulletLine `json:"bullets,omitempty"`
	Table     *TableLayout `json:"table,omitempty"`
	Steps     []StepBox    `json:"steps,omitempty"`
	Direction string       `json:"direction,omitempty"`
	KPI       *KPILayout   `json:"kpi,omitempty"`
	Text      *TextBody    `json:"text,omitempty"`
}

// compose turns a section plus its placement into a positioned section
// layout. Every composer reserves the same header band at the top of the
// frame, then fills the remainder per type.
func compose(sec content.Section, p Placement) SectionLayout {
	frame := Box{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}

	sl := SectionLayout{
		ID:     sec.ID,
		Type:   sec.Type,
		Column: p.Column,
		Frame:  frame,
	}
	// Every section carries the header band, even with an empty label, so
	// the renderer draws a uniform bar regardless of type.
	sl.Header = &Element{
		Text: sec.Header,
		Box:  Box{X: frame.X, Y: frame.Y, Width: frame.Width, Height: headerBandMM},
	}

	switch sec.Type {
	case content.TypeBullets:
		sl.Bullets = composeBullets(sec.Content.Items, frame)
	case content.TypeTable:
		sl.Table = composeTable(sec.Content, frame)
	case content.TypeFlowchart:
		sl.Steps, sl.Direction = composeFlowchart(sec.Content, frame)
	case content.TypeKPIBox:
		sl.KPI = composeKPI(sec.Content, frame)
	default:
		sl.Text = composeText(sec.Content.Text, frame)
	}

	return sl
}

func composeBullets(items []content.BulletItem, frame Box) []BulletLine {
	lines := make([]BulletLine, 0, len(items))
	y := frame.Y + bulletTopOffsetMM

	// All lines share the same fixed inset; the indent level is recorded
	// verbatim and the renderer applies the hanging-indent styling.
	for _, it := range items {
		lines = append(lines, BulletLine{
			Text:     it.Text,
			Indent:   it.Indent,
			X:        frame.X + bulletIndentMM,
			Y:        y,
			WidthMM:  frame.Width - 2*bulletIndentMM,
			HeightMM: bulletLineSpacingMM - 1,
		})
		y += bulletLineSpacingMM
	}

	return lines
}

func composeTable(p content.Payload, frame Box) *TableLayout {
	cols := len(p.Columns)
	inner := frame.Width - 2*tableInsetXMM

	return &TableLayout{
		Box: Box{
			X:      frame.X + tableInsetXMM,
			Y:      frame.Y + tableTopMM,
			Width:  inner,
			Height: float64(len(p.Rows)+1) * tableRowMM,
		},
		Headers:     p.Columns,
		Rows:        p.Rows,
		RowHeightMM: tableRowMM,
		ColWidthMM:  inner / float64(max(1, cols)),
	}
}

func composeFlowchart(p content.Payload, frame Box) ([]StepBox, string) {
	dir := p.Direction
	if dir != content.DirectionVertical {
		dir = content.DirectionHorizontal
	}

	n := len(p.Steps)
	if n == 0 {
		return nil, dir
	}

	boxes := make([]StepBox, 0, n)
	if dir == content.DirectionHorizontal {
		stepWidth := (frame.Width-2*stepGapHMM)/float64(n) - stepGapHMM
		for i, text := range p.Steps {
			boxes = append(boxes, StepBox{
				Text: text,
				Box: Box{
					X:      frame.X + stepGapHMM + float64(i)*(stepWidth+stepGapHMM),
					Y:      frame.Y + 12,
					Width:  stepWidth,
					Height: stepHeightHMM,
				},
				ArrowAfter: i < n-1,
			})
		}
		return boxes, dir
	}

	for i, text := range p.Steps {
		boxes = append(boxes, StepBox{
			Text: text,
			Box: Box{
				X:      frame.X + 10,
				Y:      frame.Y + 12 + float64(i)*(stepHeightVMM+stepGapVMM),
				Width:  frame.Width - 20,
				Height: stepHeightVMM,
			},
			ArrowAfter: i < n-1,
		})
	}
	return boxes, dir
}

func composeKPI(p content.Payload, frame Box) *KPILayout {
	return &KPILayout{
		Value: p.Value,
		Unit:  p.Unit,
		Label: p.Label,
		ValueBox: Box{
			X:      frame.X + 5,
			Y:      frame.Y + 12,
			Width:  frame.Width - 10,
			Height: 20,
		},
		ValueFontPT: kpiValueFontPT,
	}
}

func composeText(text string, frame Box) *TextBody {
	return &TextBody{
		Text: text,
		Box: Box{
			X:      frame.X + tableInsetXMM,
			Y:      frame.Y + tableTopMM,
			Width:  frame.Width - 2*tableInsetXMM,
			Height: frame.Height - 12,
		},
	}
}
