package layout

import (
	"testing"

	"github.com/onepagerhq/onepager/pkg/content"
)

func testPlacement(width, height float64) Placement {
	return Placement{SectionID: "s", Column: 0, X: 15, Y: 35, Width: width, Height: height}
}

func TestComposeHeaderBand(t *testing.T) {
	sec := content.Section{ID: "s", Header: "Overview", Type: content.TypeTextBlock}
	sl := compose(sec, testPlacement(190, 60))

	if sl.Header == nil {
		t.Fatal("compose() header = nil, want element")
	}
	if sl.Header.Text != "Overview" {
		t.Errorf("header text = %q, want Overview", sl.Header.Text)
	}
	if !almostEqual(sl.Header.Height, 10) {
		t.Errorf("header band height = %g, want 10", sl.Header.Height)
	}
	if !almostEqual(sl.Header.Y, sl.Frame.Y) {
		t.Errorf("header y = %g, want frame top %g", sl.Header.Y, sl.Frame.Y)
	}
}

func TestComposeEmptyHeaderStillBands(t *testing.T) {
	// the band is uniform across types and present even without a label
	for _, typ := range []string{content.TypeTextBlock, content.TypeBullets, content.TypeKPIBox} {
		sec := content.Section{ID: "s", Type: typ}
		sl := compose(sec, testPlacement(190, 60))
		if sl.Header == nil {
			t.Fatalf("compose() header = nil for type %q, want empty-label band", typ)
		}
		if sl.Header.Text != "" {
			t.Errorf("header text = %q, want empty", sl.Header.Text)
		}
		if !almostEqual(sl.Header.Height, 10) {
			t.Errorf("header band height = %g, want 10", sl.Header.Height)
		}
	}
}

func TestComposeBullets(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeBullets, Content: content.Payload{
		Items: []content.BulletItem{
			{Text: "top"},
			{Text: "nested", Indent: 1},
			{Text: "deeper", Indent: 2},
		},
	}}

	sl := compose(sec, testPlacement(190, 60))
	if len(sl.Bullets) != 3 {
		t.Fatalf("len(Bullets) = %d, want 3", len(sl.Bullets))
	}

	// first line sits below the header band offset
	if !almostEqual(sl.Bullets[0].Y, 35+10) {
		t.Errorf("first bullet y = %g, want 45", sl.Bullets[0].Y)
	}
	// 8mm line spacing
	if !almostEqual(sl.Bullets[1].Y, sl.Bullets[0].Y+8) {
		t.Errorf("second bullet y = %g, want %g", sl.Bullets[1].Y, sl.Bullets[0].Y+8)
	}
	// every line shares the fixed 5mm inset; the indent level is carried
	// for the renderer, not applied to the geometry
	for i, b := range sl.Bullets {
		if !almostEqual(b.X, 15+5) {
			t.Errorf("bullet %d x = %g, want 20", i, b.X)
		}
		if !almostEqual(b.WidthMM, 180) {
			t.Errorf("bullet %d width = %g, want 180", i, b.WidthMM)
		}
	}
	if sl.Bullets[1].Indent != 1 || sl.Bullets[2].Indent != 2 {
		t.Errorf("indents = %d, %d, want 1, 2 recorded verbatim",
			sl.Bullets[1].Indent, sl.Bullets[2].Indent)
	}
}

func TestComposeBulletsTopLevelInset(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeBullets, Content: content.Payload{
		Items: []content.BulletItem{{Text: "plain"}},
	}}

	p := Placement{SectionID: "s", Column: 0, X: 100, Y: 35, Width: 190, Height: 60}
	sl := compose(sec, p)
	if !almostEqual(sl.Bullets[0].X, 105) {
		t.Errorf("indent-0 bullet x = %g, want 105", sl.Bullets[0].X)
	}
}

func TestComposeTable(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeTable, Content: content.Payload{
		Columns: []string{"A", "B", "C"},
		Rows: [][]string{
			{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}, {"10", "11", "12"},
		},
	}}

	sl := compose(sec, testPlacement(190, 60))
	if sl.Table == nil {
		t.Fatal("compose() table = nil")
	}

	// 3 columns in a 190mm frame: cell width (190-4)/3
	if !almostEqual(sl.Table.ColWidthMM, (190-4)/3.0) {
		t.Errorf("ColWidthMM = %g, want %g", sl.Table.ColWidthMM, (190-4)/3.0)
	}
	// header row + 4 data rows at 8mm
	if !almostEqual(sl.Table.Height, 40) {
		t.Errorf("table height = %g, want 40", sl.Table.Height)
	}
	if !almostEqual(sl.Table.X, 17) || !almostEqual(sl.Table.Y, 45) {
		t.Errorf("table origin = (%g, %g), want (17, 45)", sl.Table.X, sl.Table.Y)
	}
}

func TestComposeTableNoColumns(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeTable, Content: content.Payload{
		Rows: [][]string{{"only"}},
	}}

	sl := compose(sec, testPlacement(190, 60))
	// zero declared columns must not divide by zero
	if !almostEqual(sl.Table.ColWidthMM, 186) {
		t.Errorf("ColWidthMM = %g, want full inner width 186", sl.Table.ColWidthMM)
	}
}

func TestComposeFlowchartHorizontal(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeFlowchart, Content: content.Payload{
		Steps: content.Steps{"plan", "build", "ship"},
	}}

	sl := compose(sec, testPlacement(190, 50))
	if sl.Direction != content.DirectionHorizontal {
		t.Errorf("direction = %q, want default h", sl.Direction)
	}
	if len(sl.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(sl.Steps))
	}

	stepWidth := (190-10)/3.0 - 5
	if !almostEqual(sl.Steps[0].Width, stepWidth) {
		t.Errorf("step width = %g, want %g", sl.Steps[0].Width, stepWidth)
	}
	if !almostEqual(sl.Steps[1].X, sl.Steps[0].X+stepWidth+5) {
		t.Errorf("step 1 x = %g, want %g", sl.Steps[1].X, sl.Steps[0].X+stepWidth+5)
	}
	if !almostEqual(sl.Steps[0].Height, 25) {
		t.Errorf("step height = %g, want 25", sl.Steps[0].Height)
	}

	if !sl.Steps[0].ArrowAfter || !sl.Steps[1].ArrowAfter {
		t.Error("inner steps should carry connector arrows")
	}
	if sl.Steps[2].ArrowAfter {
		t.Error("last step should not carry a connector arrow")
	}
}

func TestComposeFlowchartVertical(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeFlowchart, Content: content.Payload{
		Steps:     content.Steps{"a", "b"},
		Direction: content.DirectionVertical,
	}}

	sl := compose(sec, testPlacement(190, 80))
	if len(sl.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(sl.Steps))
	}

	if !almostEqual(sl.Steps[0].Width, 170) {
		t.Errorf("step width = %g, want 170", sl.Steps[0].Width)
	}
	if !almostEqual(sl.Steps[0].Height, 18) {
		t.Errorf("step height = %g, want 18", sl.Steps[0].Height)
	}
	if !almostEqual(sl.Steps[1].Y, sl.Steps[0].Y+18+7) {
		t.Errorf("step 1 y = %g, want %g", sl.Steps[1].Y, sl.Steps[0].Y+25)
	}
}

func TestComposeFlowchartEmpty(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeFlowchart}
	if sl := compose(sec, testPlacement(190, 50)); len(sl.Steps) != 0 {
		t.Errorf("len(Steps) = %d, want 0 for empty flowchart", len(sl.Steps))
	}
}

func TestComposeKPI(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeKPIBox, Content: content.Payload{
		Value: "87", Unit: "%", Label: "coverage",
	}}

	sl := compose(sec, testPlacement(190, 45))
	if sl.KPI == nil {
		t.Fatal("compose() kpi = nil")
	}
	if sl.KPI.Value != "87" || sl.KPI.Unit != "%" || sl.KPI.Label != "coverage" {
		t.Errorf("kpi = %+v, want value/unit/label carried through", sl.KPI)
	}
	if !almostEqual(sl.KPI.ValueBox.Width, 180) || !almostEqual(sl.KPI.ValueBox.Height, 20) {
		t.Errorf("value box = %gx%g, want 180x20", sl.KPI.ValueBox.Width, sl.KPI.ValueBox.Height)
	}
	if sl.KPI.ValueFontPT != 32 {
		t.Errorf("value font = %d, want 32", sl.KPI.ValueFontPT)
	}
}

func TestComposeText(t *testing.T) {
	sec := content.Section{ID: "s", Type: content.TypeTextBlock, Content: content.Payload{
		Text: "A short paragraph.",
	}}

	sl := compose(sec, testPlacement(190, 60))
	if sl.Text == nil {
		t.Fatal("compose() text = nil")
	}
	if sl.Text.Text != "A short paragraph." {
		t.Errorf("text = %q, want carried through", sl.Text.Text)
	}
	if !almostEqual(sl.Text.Width, 186) {
		t.Errorf("body width = %g, want 186", sl.Text.Width)
	}
	if !almostEqual(sl.Text.Height, 48) {
		t.Errorf("body height = %g, want 48", sl.Text.Height)
	}
}

func TestComposeUnknownTypeFallsBackToText(t *testing.T) {
	sec := content.Section{ID: "s", Type: "gantt", Content: content.Payload{Text: "fallback"}}

	sl := compose(sec, testPlacement(190, 60))
	if sl.Type != "gantt" {
		t.Errorf("type = %q, want original type carried through", sl.Type)
	}
	if sl.Text == nil || sl.Text.Text != "fallback" {
		t.Errorf("text = %+v, want fallback text body", sl.Text)
	}
}
