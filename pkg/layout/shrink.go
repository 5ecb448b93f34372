package layout

import (
	"math"

	"github.com/onepagerhq/onepager/pkg/config"
)

// Font-fit character model. The estimate is deliberately crude: a fixed
// average glyph width and line height per point, no kerning, no word
// wrapping. It only needs to err consistently, not accurately.
const (
	charWidthPerPt  = 0.35 // mm of horizontal advance per point of font size
	lineHeightPerPt = 0.42 // mm of line height per point of font size
)

// textFits reports whether text at sizePt fits inside a width x height
// box under the character model.
func textFits(text string, widthMM, heightMM float64, sizePt int) bool {
	charWidth := float64(sizePt) * charWidthPerPt
	charsPerLine := max(1, int(widthMM/charWidth))
	lines := math.Ceil(float64(len([]rune(text))) / float64(charsPerLine))
	return lines*float64(sizePt)*lineHeightPerPt <= heightMM
}

// FitFont returns the largest font size, starting at startPt and stepping
// down by the configured shrink step, at which text fits the given box.
// The result never goes below the configured floor, even when the text
// still overflows there; rendering clips rather than vanishes.
//
// FitFont is monotonic in the box: growing either dimension never yields a
// smaller size for the same text.
func FitFont(text string, widthMM, heightMM float64, startPt int, shrink config.AutoShrink) int {
	size := startPt
	for size > shrink.MinFontSizePt && !textFits(text, widthMM, heightMM, size) {
		size -= shrink.ShrinkStepPt
	}
	return max(size, shrink.MinFontSizePt)
}
