package layout

import (
	"strings"
	"testing"

	"github.com/onepagerhq/onepager/pkg/content"
)

func TestMatchDOT(t *testing.T) {
	sections := []content.Section{
		{ID: "problem", Type: content.TypeTextBlock},
		{ID: "extra", Column: intPtr(1), Type: content.TypeBullets},
	}

	dot := MatchDOT(sections, testTemplate(), 2)

	if !strings.HasPrefix(dot, "digraph match {") {
		t.Error("MatchDOT() should start with 'digraph match {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("MatchDOT() should end with '}'")
	}

	for _, want := range []string{"rankdir=LR", "slot:problem", "slot:solution", "sec:0", "sec:1"} {
		if !strings.Contains(dot, want) {
			t.Errorf("MatchDOT() missing %q", want)
		}
	}

	// problem matches by id (solid), extra by column (dashed)
	if !strings.Contains(dot, `"slot:problem" -> "sec:0"`) {
		t.Error("MatchDOT() missing id-match edge")
	}
	if !strings.Contains(dot, "style=dashed") {
		t.Error("MatchDOT() missing dashed column-fallback edge")
	}
}

func TestMatchDOTAnonymousSections(t *testing.T) {
	sections := []content.Section{
		{Type: content.TypeTextBlock},
	}

	dot := MatchDOT(sections, testTemplate(), 2)
	if !strings.Contains(dot, "#0") {
		t.Error("MatchDOT() should label id-less sections by index")
	}
}
