package render

import (
	"context"
	"strings"
	"testing"
)

func TestConvertMissingTool(t *testing.T) {
	// An empty PATH guarantees rsvg-convert is unresolvable, so the
	// friendly install hint is returned instead of an exec error.
	t.Setenv("PATH", "")

	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2.0)
	if err == nil {
		t.Fatal("ToPNG() expected error without rsvg-convert on PATH")
	}
	if !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("error = %q, want install hint mentioning librsvg", err)
	}

	_, err = ToPDF(context.Background(), []byte("<svg/>"))
	if err == nil {
		t.Fatal("ToPDF() expected error without rsvg-convert on PATH")
	}
}
