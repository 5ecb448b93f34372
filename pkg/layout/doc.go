// Package layout is the layout engine: it turns a content description into
// absolute millimeter coordinates for every element on one fixed-size page.
//
// # Pipeline
//
// [Build] runs the full engine:
//
//  1. [Calculate] derives the page geometry (header band, footer band,
//     content columns) from configuration.
//  2. The template store resolves the document's template id; unknown ids
//     fall back to automatic flow and emit a diagnostic.
//  3. [Plan] assigns every section a column and a vertical offset, either
//     by matching sections to template slots or by top-down column flow.
//  4. [Compose] produces the per-type sub-layout (bullet lines, table
//     grid, flowchart steps, KPI box, text body) for each placement.
//
// [FitFont] is a standalone utility invoked by the renderer per text box.
//
// # Guarantees
//
// Every input section yields exactly one placement and one sub-layout,
// with a column index always inside the grid, regardless of how sparse or
// malformed the hints are. Heights are heuristic estimates: content may
// visually overflow its box, which is accepted rather than prevented. The
// page size in the output always equals the configured page size.
package layout
