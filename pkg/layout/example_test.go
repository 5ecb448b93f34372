package layout_test

import (
	"context"
	"fmt"

	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
)

func ExampleBuild() {
	doc := content.Document{
		Title: "Migration Plan",
		Sections: []content.Section{
			{ID: "goals", Header: "Goals", Type: content.TypeBullets, Content: content.Payload{
				Items: []content.BulletItem{{Text: "zero downtime"}, {Text: "no data loss"}},
			}},
		},
	}

	l, _ := layout.Build(context.Background(), doc, config.Default())

	fmt.Printf("page: %gx%g mm\n", l.Page.WidthMM, l.Page.HeightMM)
	fmt.Printf("sections: %d\n", len(l.Sections))
	fmt.Printf("first section at column %d, y %g mm\n", l.Sections[0].Column, l.Sections[0].Frame.Y)
	// Output:
	// page: 420x297 mm
	// sections: 1
	// first section at column 0, y 35 mm
}

func ExampleFitFont() {
	shrink := config.AutoShrink{MinFontSizePt: 8, ShrinkStepPt: 1}

	fits := layout.FitFont("short label", 100, 40, 14, shrink)
	long := layout.FitFont(
		"A much longer paragraph that will not fit the same box at the starting size and has to shrink.",
		40, 15, 14, shrink)

	fmt.Println(fits, long)
	// Output: 14 8
}

func ExamplePlan() {
	geo, _ := layout.Calculate(config.Default())
	sections := []content.Section{
		{ID: "left", Type: content.TypeKPIBox},
		{ID: "right", Type: content.TypeKPIBox},
	}

	for _, p := range layout.Plan(context.Background(), sections, geo, nil) {
		fmt.Printf("%s: column %d at (%g, %g)\n", p.SectionID, p.Column, p.X, p.Y)
	}
	// Output:
	// left: column 0 at (15, 35)
	// right: column 0 at (15, 88)
}
