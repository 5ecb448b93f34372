package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	doc := content.Document{
		Title:    "Launch Readiness",
		Subtitle: "status as of Friday",
		Sections: []content.Section{
			{ID: "risks", Header: "Risks", Type: content.TypeBullets, Content: content.Payload{
				Items: []content.BulletItem{{Text: "vendor delay"}, {Text: "cutover window", Indent: 1}},
			}},
			{ID: "timeline", Header: "Timeline", Type: content.TypeFlowchart, Content: content.Payload{
				Steps: content.Steps{"freeze", "stage", "ship"},
			}},
			{ID: "uptime", Header: "Uptime", Type: content.TypeKPIBox, Content: content.Payload{
				Value: "99.9", Unit: "%", Label: "last 90 days",
			}},
			{ID: "summary", Type: content.TypeTextBlock, Content: content.Payload{
				Text: "All launch criteria are met except the vendor dependency.",
			}},
			{ID: "owners", Header: "Owners", Type: content.TypeTable, Content: content.Payload{
				Columns: []string{"Area", "Owner"},
				Rows:    [][]string{{"infra", "dana"}, {"app", "kim"}},
			}},
		},
	}

	l, err := layout.Build(context.Background(), doc, config.Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return l
}

func TestRenderSVGStructure(t *testing.T) {
	svg := string(RenderSVG(testLayout(t)))

	if !strings.HasPrefix(svg, "<svg ") {
		t.Error("RenderSVG() should start with an <svg> element")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("RenderSVG() should end with </svg>")
	}
	if !strings.Contains(svg, `viewBox="0 0 420 297"`) {
		t.Error("RenderSVG() viewBox should match the page size in mm")
	}
	if !strings.Contains(svg, `width="420mm"`) {
		t.Error("RenderSVG() should declare physical width in mm")
	}
}

func TestRenderSVGContent(t *testing.T) {
	svg := string(RenderSVG(testLayout(t)))

	for _, want := range []string{
		"Launch Readiness",           // title
		"status as of Friday",        // subtitle
		"vendor delay",               // bullet
		"freeze",                     // flowchart step
		"99.9 %",                     // kpi value with unit
		"last 90 days",               // kpi label
		"dana",                       // table cell
		"marker-end=\"url(#arrow)\"", // flowchart connector
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	l := layout.Layout{
		Page:   layout.PageSize{WidthMM: 100, HeightMM: 100},
		Header: layout.HeaderLayout{Title: `<b>&"bold"</b>`},
	}

	svg := string(RenderSVG(l))
	if strings.Contains(svg, "<b>") {
		t.Error("RenderSVG() must escape markup in text content")
	}
	if !strings.Contains(svg, "&lt;b&gt;&amp;&quot;bold&quot;") {
		t.Error("RenderSVG() escaped title not found")
	}
}

func TestRenderSVGPalette(t *testing.T) {
	cfg := config.Default()
	cfg.Colors.Primary = "#ABCDEF"

	svg := string(RenderSVG(testLayout(t), WithConfig(cfg)))
	if !strings.Contains(svg, "#ABCDEF") {
		t.Error("RenderSVG() should use the configured primary color")
	}
}

func TestRenderSVGGridOverlay(t *testing.T) {
	l := testLayout(t)

	plain := string(RenderSVG(l))
	debug := string(RenderSVG(l, WithGrid()))

	if strings.Contains(plain, "stroke-dasharray") {
		t.Error("grid overlay should be off by default")
	}
	if !strings.Contains(debug, "stroke-dasharray") {
		t.Error("WithGrid() should draw dashed section frames")
	}
}

func TestRenderSVGEmptyLayout(t *testing.T) {
	l := layout.Layout{Page: layout.PageSize{WidthMM: 210, HeightMM: 297}}

	svg := string(RenderSVG(l))
	if !strings.Contains(svg, `viewBox="0 0 210 297"`) {
		t.Error("RenderSVG() should handle an empty layout")
	}
}

func TestRenderTextFitsFontAtDrawTime(t *testing.T) {
	cfg := config.Default()
	r := svgRenderer{cfg: cfg}
	box := layout.Box{X: 15, Y: 45, Width: 90, Height: 30}

	var short bytes.Buffer
	r.renderText(&short, layout.TextBody{Text: "fits easily", Box: box})
	if want := fontSize(cfg.Typography.BodySize); !strings.Contains(short.String(), `font-size="`+want+`"`) {
		t.Errorf("short text font-size missing %q in %s", want, short.String())
	}

	text := strings.Repeat("overflowing copy ", 60)
	pt := layout.FitFont(text, box.Width, box.Height, cfg.Typography.BodySize, cfg.AutoShrink)
	if pt >= cfg.Typography.BodySize {
		t.Fatalf("FitFont() = %d, want shrunk below %d", pt, cfg.Typography.BodySize)
	}

	var long bytes.Buffer
	r.renderText(&long, layout.TextBody{Text: text, Box: box})
	if want := fontSize(pt); !strings.Contains(long.String(), `font-size="`+want+`"`) {
		t.Errorf("overflowing text font-size missing %q", want)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		widthMM float64
		sizePt  int
		want    []string
	}{
		{
			name: "empty", text: "", widthMM: 100, sizePt: 10,
			want: nil,
		},
		{
			// 10pt -> 3.5mm per char, 35mm -> 10 chars per line
			name: "breaks at spaces", text: "one two three", widthMM: 35, sizePt: 10,
			want: []string{"one two", "three"},
		},
		{
			name: "hard-breaks long words", text: "abcdefghijklmnop", widthMM: 35, sizePt: 10,
			want: []string{"abcdefghij", "klmnop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.widthMM, tt.sizePt)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
