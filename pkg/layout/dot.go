package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/onepagerhq/onepager/pkg/content"
)

// MatchDOT renders the slot matching for a document against a template as
// a Graphviz DOT bipartite graph: template slots on the left, sections on
// the right, solid edges for id matches and dashed edges for column
// fallbacks. Unmatched nodes on either side stay edge-less, which makes
// leftover flow and silent slots visible at a glance.
//
// The graph is a debugging aid for `templates inspect`; it reflects the
// same matching [Plan] applies.
func MatchDOT(sections []content.Section, tmpl *Template, columnCount int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph match {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.1\"];\n")
	buf.WriteString("\n")

	for _, slot := range tmpl.Slots {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n",
			"slot:"+slot.ID,
			fmt.Sprintf("%s\ncol %d", slot.ID, slot.Column))
	}

	buf.WriteString("\n")
	for i, sec := range sections {
		label := sec.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=white];\n",
			fmt.Sprintf("sec:%d", i),
			fmt.Sprintf("%s\n%s", label, sec.Type))
	}

	buf.WriteString("\n")
	matches, _ := matchSlots(sections, tmpl, columnCount)
	for _, m := range matches {
		style := "solid"
		if m.By == "column" {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=%s];\n",
			"slot:"+m.Slot.ID, fmt.Sprintf("sec:%d", m.Section), m.By, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderMatchSVG renders a DOT match graph to SVG using Graphviz.
func RenderMatchSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
