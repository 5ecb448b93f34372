// Package render turns a positioned layout into output artifacts.
//
// The SVG backend is the primary one and draws directly from the layout's
// millimeter coordinates; it makes no layout decisions of its own. PNG and
// PDF are derived from the SVG via rsvg-convert, mirroring how the layout
// itself stays format-agnostic.
package render
