package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/layout"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cfg  config.Config
	grid bool
}

// WithConfig sets the palette and typography used for drawing. Default is
// the built-in configuration.
func WithConfig(cfg config.Config) SVGOption {
	return func(r *svgRenderer) { r.cfg = cfg }
}

// WithGrid overlays the column grid and section frames for debugging.
func WithGrid() SVGOption {
	return func(r *svgRenderer) { r.grid = true }
}

// RenderSVG draws a layout as an SVG document. User units are millimeters,
// matching the layout's coordinate space, so every element lands exactly
// where the layout placed it.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{cfg: config.Default()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%gmm" height="%gmm" viewBox="0 0 %g %g" font-family="%s">`+"\n",
		l.Page.WidthMM, l.Page.HeightMM, l.Page.WidthMM, l.Page.HeightMM,
		esc(r.cfg.Typography.FontFamily))

	r.renderDefs(&buf)
	r.renderBackground(&buf, l)
	r.renderHeader(&buf, l.Header)
	for _, s := range l.Sections {
		r.renderSection(&buf, s)
	}
	r.renderFooter(&buf, l.Footer)
	if r.grid {
		r.renderGrid(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func esc(s string) string { return escaper.Replace(s) }

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>
    </marker>
  </defs>
`, r.cfg.Colors.Secondary)
}

func (r *svgRenderer) renderBackground(buf *bytes.Buffer, l layout.Layout) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%g" height="%g" fill="%s"/>`+"\n",
		l.Page.WidthMM, l.Page.HeightMM, r.cfg.Page.BackgroundColor)
}

func (r *svgRenderer) renderHeader(buf *bytes.Buffer, h layout.HeaderLayout) {
	ty := r.cfg.Typography
	fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
		h.X, h.Y+ptToMM(ty.TitleSize), fontSize(ty.TitleSize), r.cfg.Colors.Primary, esc(h.Title))

	if h.Subtitle != "" {
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s">%s</text>`+"\n",
			h.X, h.Bottom()-2, fontSize(ty.SectionHeadSize-4), r.cfg.Colors.Secondary, esc(h.Subtitle))
	}

	// divider under the header band
	fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.8"/>`+"\n",
		h.X, h.Bottom(), h.Right(), h.Bottom(), r.cfg.Colors.Primary)
}

func (r *svgRenderer) renderFooter(buf *bytes.Buffer, f layout.FooterLayout) {
	fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.4"/>`+"\n",
		f.X, f.Y, f.Right(), f.Y, r.cfg.Colors.Border)

	if f.Note != "" {
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s">%s</text>`+"\n",
			f.X, f.Y+ptToMM(r.cfg.Typography.FooterSize)+1, fontSize(r.cfg.Typography.FooterSize),
			r.cfg.Colors.Secondary, esc(f.Note))
	}
}

func (r *svgRenderer) renderSection(buf *bytes.Buffer, s layout.SectionLayout) {
	if s.Header != nil {
		r.renderSectionHeader(buf, *s.Header)
	}

	switch {
	case s.Bullets != nil:
		r.renderBullets(buf, s.Bullets)
	case s.Table != nil:
		r.renderTable(buf, *s.Table)
	case s.Steps != nil:
		r.renderSteps(buf, s.Steps, s.Direction)
	case s.KPI != nil:
		r.renderKPI(buf, *s.KPI)
	case s.Text != nil:
		r.renderText(buf, *s.Text)
	}
}

func (r *svgRenderer) renderSectionHeader(buf *bytes.Buffer, h layout.Element) {
	ty := r.cfg.Typography
	fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
		h.X, h.Y+ptToMM(ty.SectionHeadSize), fontSize(ty.SectionHeadSize), r.cfg.Colors.Primary, esc(h.Text))
	fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.5"/>`+"\n",
		h.X, h.Bottom()-1, h.Right(), h.Bottom()-1, r.cfg.Colors.Border)
}

func (r *svgRenderer) renderBullets(buf *bytes.Buffer, lines []layout.BulletLine) {
	size := r.cfg.Typography.BodySize
	for _, b := range lines {
		// hanging indent: the recorded level shifts the marker and text,
		// the line box itself stays at the section's fixed inset
		hang := float64(b.Indent) * 5
		pt := layout.FitFont(b.Text, b.WidthMM-hang, b.HeightMM, size, r.cfg.AutoShrink)
		fmt.Fprintf(buf, `  <circle cx="%g" cy="%g" r="0.8" fill="%s"/>`+"\n",
			b.X+hang+1.5, b.Y+b.HeightMM/2, r.cfg.Colors.Primary)
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s">%s</text>`+"\n",
			b.X+hang+4, b.Y+b.HeightMM/2+ptToMM(pt)/2.5, fontSize(pt), r.cfg.Colors.Secondary, esc(b.Text))
	}
}

func (r *svgRenderer) renderTable(buf *bytes.Buffer, t layout.TableLayout) {
	ty := r.cfg.Typography

	// header row
	fmt.Fprintf(buf, `  <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
		t.X, t.Y, t.Width, t.RowHeightMM, r.cfg.Colors.AccentBG)
	for c, h := range t.Headers {
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
			t.X+float64(c)*t.ColWidthMM+1.5, t.Y+t.RowHeightMM-2.5,
			fontSize(ty.TableHeaderSize), r.cfg.Colors.Primary, esc(h))
	}

	for row, cells := range t.Rows {
		y := t.Y + float64(row+1)*t.RowHeightMM
		for c, cell := range cells {
			fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s">%s</text>`+"\n",
				t.X+float64(c)*t.ColWidthMM+1.5, y+t.RowHeightMM-2.5,
				fontSize(ty.TableBodySize), r.cfg.Colors.Secondary, esc(cell))
		}
		fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.25"/>`+"\n",
			t.X, y, t.Right(), y, r.cfg.Colors.Border)
	}

	fmt.Fprintf(buf, `  <rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="%s" stroke-width="0.4"/>`+"\n",
		t.X, t.Y, t.Width, t.Height, r.cfg.Colors.Border)
}

func (r *svgRenderer) renderSteps(buf *bytes.Buffer, steps []layout.StepBox, direction string) {
	for _, s := range steps {
		pt := layout.FitFont(s.Text, s.Width-2, s.Height, r.cfg.Typography.BodySize, r.cfg.AutoShrink)

		fmt.Fprintf(buf, `  <rect x="%g" y="%g" width="%g" height="%g" rx="2" fill="%s" stroke="%s" stroke-width="0.4"/>`+"\n",
			s.X, s.Y, s.Width, s.Height, r.cfg.Colors.AccentBG, r.cfg.Colors.Primary)
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s" text-anchor="middle">%s</text>`+"\n",
			s.X+s.Width/2, s.Y+s.Height/2+ptToMM(pt)/2.5, fontSize(pt), r.cfg.Colors.Secondary, esc(s.Text))

		if !s.ArrowAfter {
			continue
		}
		if direction == "v" {
			fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.6" marker-end="url(#arrow)"/>`+"\n",
				s.X+s.Width/2, s.Bottom(), s.X+s.Width/2, s.Bottom()+6, r.cfg.Colors.Secondary)
		} else {
			fmt.Fprintf(buf, `  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="0.6" marker-end="url(#arrow)"/>`+"\n",
				s.Right(), s.Y+s.Height/2, s.Right()+4.5, s.Y+s.Height/2, r.cfg.Colors.Secondary)
		}
	}
}

func (r *svgRenderer) renderKPI(buf *bytes.Buffer, k layout.KPILayout) {
	box := k.ValueBox
	fmt.Fprintf(buf, `  <rect x="%g" y="%g" width="%g" height="%g" rx="2" fill="%s"/>`+"\n",
		box.X, box.Y, box.Width, box.Height, r.cfg.Colors.AccentBG)

	value := k.Value
	if k.Unit != "" {
		value += " " + k.Unit
	}
	fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`+"\n",
		box.X+box.Width/2, box.Y+box.Height/2+ptToMM(k.ValueFontPT)/2.5,
		fontSize(k.ValueFontPT), r.cfg.Colors.Primary, esc(value))

	if k.Label != "" {
		fmt.Fprintf(buf, `  <text x="%g" y="%g" font-size="%s" fill="%s" text-anchor="middle">%s</text>`+"\n",
			box.X+box.Width/2, box.Bottom()+5, fontSize(r.cfg.Typography.BodySize-2),
			r.cfg.Colors.Secondary, esc(k.Label))
	}
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, t layout.TextBody) {
	pt := layout.FitFont(t.Text, t.Width, t.Height, r.cfg.Typography.BodySize, r.cfg.AutoShrink)
	lineHeight := float64(pt) * 0.42

	fmt.Fprintf(buf, `  <text font-size="%s" fill="%s">`+"\n", fontSize(pt), r.cfg.Colors.Secondary)
	for i, line := range wrapText(t.Text, t.Width, pt) {
		fmt.Fprintf(buf, `    <tspan x="%g" y="%g">%s</tspan>`+"\n",
			t.X, t.Y+float64(i+1)*lineHeight, esc(line))
	}
	buf.WriteString("  </text>\n")
}

func (r *svgRenderer) renderGrid(buf *bytes.Buffer, l layout.Layout) {
	for _, s := range l.Sections {
		fmt.Fprintf(buf, `  <rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="%s" stroke-width="0.2" stroke-dasharray="2,1"/>`+"\n",
			s.Frame.X, s.Frame.Y, s.Frame.Width, s.Frame.Height, r.cfg.Colors.Alert)
	}
}

// wrapText splits text into lines using the same per-character advance
// model the font fitter uses, breaking at spaces when possible.
func wrapText(text string, widthMM float64, sizePt int) []string {
	charsPerLine := max(1, int(widthMM/(float64(sizePt)*0.35)))

	var lines []string
	for _, word := range strings.Fields(text) {
		if n := len(lines); n > 0 && len(lines[n-1])+1+len(word) <= charsPerLine {
			lines[n-1] += " " + word
			continue
		}
		for len(word) > charsPerLine {
			lines = append(lines, word[:charsPerLine])
			word = word[charsPerLine:]
		}
		lines = append(lines, word)
	}
	return lines
}

// ptToMM approximates the cap height of a font size in millimeters, for
// baseline positioning.
func ptToMM(pt int) float64 { return float64(pt) * 0.3528 }

// fontSize formats a point size as an SVG length in the mm-based user
// space.
func fontSize(pt int) string {
	return fmt.Sprintf("%.2f", float64(pt)*0.3528)
}
