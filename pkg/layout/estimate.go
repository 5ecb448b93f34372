package layout

import (
	"math"

	"github.com/onepagerhq/onepager/pkg/content"
)

// headerBandMM is the uniform labeled bar at the top of every section,
// independent of type.
const headerBandMM = 10.0

// EstimateHeight predicts the vertical space in millimeters a section will
// need. It is a deterministic heuristic, not a text-measurement engine:
// it may over- or under-estimate, and callers accept visual overflow
// rather than treating it as an error. Missing payload fields count as
// empty and still yield the per-type minimum.
//
// A horizontal flowchart deliberately ignores its step count: the steps
// share one fixed band. The vertical direction stacks the steps and
// scales with them.
func EstimateHeight(sec content.Section) float64 {
	switch sec.Type {
	case content.TypeBullets:
		return headerBandMM + float64(len(sec.Content.Items))*8 + 5

	case content.TypeTable:
		return headerBandMM + float64(len(sec.Content.Rows)+1)*8 + 5

	case content.TypeFlowchart:
		if sec.Content.Direction == content.DirectionVertical {
			return headerBandMM + float64(len(sec.Content.Steps))*25 + 5
		}
		return headerBandMM + 40

	case content.TypeKPIBox:
		return headerBandMM + 35

	default: // text_block and anything unrecognized
		lines := math.Ceil(float64(len([]rune(sec.Content.Text))) / 40)
		lines = math.Max(lines, 1)
		return headerBandMM + lines*6 + 5
	}
}
