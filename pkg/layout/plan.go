package layout

import (
	"context"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/observability"
)

// Placement is the single authoritative geometric claim for one section in
// one run: its column, top-left corner, and estimated (or slot-constrained)
// extent, all in millimeters.
type Placement struct {
	SectionID string  `json:"section_id"`
	Column    int     `json:"column"`
	X         float64 `json:"x_mm"`
	Y         float64 `json:"y_mm"`
	Width     float64 `json:"width_mm"`
	Height    float64 `json:"height_mm"`
}

// Plan assigns every section a placement. With a template it runs the
// slot-matching flow; without one it runs plain automatic flow. Either
// way the result has exactly one placement per input section, in the
// order placements were made, and every column index lies inside the
// grid.
func Plan(ctx context.Context, sections []content.Section, geo Geometry, tmpl *Template) []Placement {
	placements, _ := plan(ctx, sections, geo, tmpl)
	return placements
}

// plan also returns, per placement, the index of the section it places.
// IDs are opaque and may repeat, so indices are the only reliable join key
// between placements and sections.
func plan(ctx context.Context, sections []content.Section, geo Geometry, tmpl *Template) ([]Placement, []int) {
	if tmpl == nil {
		return planAutoFlow(ctx, sections, geo)
	}
	return planTemplateFlow(ctx, sections, geo, tmpl)
}

// cursors tracks the running y position per column.
type cursors []float64

func newCursors(geo Geometry) cursors {
	c := make(cursors, len(geo.Columns))
	for i, col := range geo.Columns {
		c[i] = col.Y
	}
	return c
}

// place emits a placement at the current cursor of col and advances the
// cursor by height plus the inter-section gap.
func (c cursors) place(id string, col int, height float64, geo Geometry) Placement {
	p := Placement{
		SectionID: id,
		Column:    col,
		X:         geo.Columns[col].X,
		Y:         c[col],
		Width:     geo.ColumnWidth(),
		Height:    height,
	}
	c[col] += height + geo.SectionGapMM
	return p
}

// clampColumn coerces a section's column hint into [0, columnCount).
// An absent hint defaults to 0 silently; an out-of-range hint defaults to
// 0 and emits a diagnostic, since it signals upstream drift worth seeing.
func clampColumn(ctx context.Context, sec content.Section, columnCount int) int {
	hint, ok := sec.ColumnHint()
	if !ok {
		return 0
	}
	if hint < 0 || hint >= columnCount {
		observability.Layout().OnColumnClamped(ctx, sec.ID, hint, 0)
		return 0
	}
	return hint
}

// planAutoFlow stacks sections top-down in input order, one running
// cursor per column.
func planAutoFlow(ctx context.Context, sections []content.Section, geo Geometry) ([]Placement, []int) {
	cur := newCursors(geo)
	placements := make([]Placement, 0, len(sections))
	indices := make([]int, 0, len(sections))

	for i, sec := range sections {
		col := clampColumn(ctx, sec, len(geo.Columns))
		placements = append(placements, cur.place(sec.ID, col, EstimateHeight(sec), geo))
		indices = append(indices, i)
	}

	return placements, indices
}

// slotMatch pairs a slot with the index of the section it claimed.
type slotMatch struct {
	Slot    Slot
	Section int    // index into the section slice
	By      string // "id" or "column"
}

// matchSlots runs the greedy matching between slots and sections: one
// pass over the slots in declaration order, and for each slot first an
// exact-id lookup over the unused sections, then a column fallback that
// takes the first unused section whose clamped column hint equals the
// slot's column; a section without a hint inherits the slot's column for
// that comparison. Both lookups draw from the same used set, so an
// earlier slot's column claim can take a section a later slot would have
// matched by id. First-fit throughout, never reordered for best fit.
//
// The used set is explicit so the matching is auditable in isolation;
// [MatchDOT] renders the same result for debugging.
func matchSlots(sections []content.Section, tmpl *Template, columnCount int) ([]slotMatch, []bool) {
	used := make([]bool, len(sections))
	var matches []slotMatch

	for _, slot := range tmpl.Slots {
		claimed := -1
		by := ""

		for i, sec := range sections {
			if !used[i] && sec.ID != "" && sec.ID == slot.ID {
				claimed = i
				by = "id"
				break
			}
		}

		if claimed < 0 {
			for i, sec := range sections {
				if used[i] {
					continue
				}
				col, ok := sec.ColumnHint()
				if !ok {
					col = slot.Column
				}
				if col < 0 || col >= columnCount {
					col = 0
				}
				if col == slot.Column {
					claimed = i
					by = "column"
					break
				}
			}
		}

		if claimed >= 0 {
			used[claimed] = true
			matches = append(matches, slotMatch{Slot: slot, Section: claimed, By: by})
		}
	}

	return matches, used
}

// planTemplateFlow places slot-matched sections first, in slot order,
// then appends every unmatched section via the automatic-flow rule onto
// the same cursors, preserving input order among the leftovers. Unmatched
// slots simply leave no placement.
func planTemplateFlow(ctx context.Context, sections []content.Section, geo Geometry, tmpl *Template) ([]Placement, []int) {
	cur := newCursors(geo)
	placements := make([]Placement, 0, len(sections))
	indices := make([]int, 0, len(sections))

	matches, used := matchSlots(sections, tmpl, len(geo.Columns))

	for _, m := range matches {
		sec := sections[m.Section]

		// The slot's column wins over the section's own hint, clamped in
		// case the template itself is out of range.
		col := m.Slot.Column
		if col < 0 || col >= len(geo.Columns) {
			observability.Layout().OnColumnClamped(ctx, sec.ID, col, 0)
			col = 0
		}

		height := max(m.Slot.MinHeightMM, min(EstimateHeight(sec), m.Slot.MaxHeightMM))
		placements = append(placements, cur.place(sec.ID, col, height, geo))
		indices = append(indices, m.Section)
	}

	for i, sec := range sections {
		if used[i] {
			continue
		}
		col := clampColumn(ctx, sec, len(geo.Columns))
		placements = append(placements, cur.place(sec.ID, col, EstimateHeight(sec), geo))
		indices = append(indices, i)
	}

	return placements, indices
}
