package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You convert source text into a one-page content description as JSON.

Return a single JSON object with this shape:
{
  "template_id": "T1" | "T2" | "T3" | "T4",
  "title": "...",
  "subtitle": "...",
  "sections": [
    {
      "id": "short_snake_case_id",
      "column": 0,
      "header": "...",
      "type": "bullets" | "table" | "flowchart" | "kpi_box" | "text_block",
      "content": { ... }
    }
  ],
  "footer_note": "..."
}

Per-type content shapes:
- bullets:    {"items": [{"text": "...", "indent": 0}]}
- table:      {"columns": ["..."], "rows": [["..."]]}
- flowchart:  {"steps": ["..."], "direction": "h" | "v"}
- kpi_box:    {"value": "...", "unit": "...", "label": "..."}
- text_block: {"text": "..."}

Templates: T1 problem/solution, T2 comparison, T3 policy proposal, T4 workflow.
Pick the template that fits the source text best and use its slot ids as
section ids where they apply (T1: problem, analysis, solution, effect).

Rules:
- 4 to 6 sections, columns 0 or 1.
- Bullets: at most 7 items, each under 50 characters.
- Flowcharts: at most 6 steps.
- Text blocks: under 200 characters.
- Respond with JSON only, no prose and no markdown fences.`

// buildPrompt assembles the full prompt for one input.
func buildPrompt(input string) string {
	return fmt.Sprintf("%s\n\nSource text:\n%s", systemPrompt, input)
}

// stripFences removes a surrounding markdown code fence, which some models
// emit despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
