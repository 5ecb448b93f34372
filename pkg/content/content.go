// Package content defines the content description consumed by the layout
// engine.
//
// A content description arrives from the external text-to-structure
// collaborator as nested JSON. Decoding is deliberately tolerant: optional
// fields may be absent, column hints may be missing or out of range, and
// payloads may be sparse. The engine never rejects a description for
// merely-missing optional data; title-less or section-less documents still
// lay out.
package content

import (
	"encoding/json"
)

// Section types. Unrecognized types are carried through verbatim and fall
// back to the text_block composer during layout.
const (
	TypeBullets   = "bullets"
	TypeTable     = "table"
	TypeFlowchart = "flowchart"
	TypeKPIBox    = "kpi_box"
	TypeTextBlock = "text_block"
)

// Flowchart directions.
const (
	DirectionHorizontal = "h"
	DirectionVertical   = "v"
)

// Document is the full content description for one page.
type Document struct {
	TemplateID string    `json:"template_id,omitempty"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle,omitempty"`
	Sections   []Section `json:"sections"`
	FooterNote string    `json:"footer_note,omitempty"`
}

// Section is one typed unit of information to place.
//
// Column is a hint only: it may be absent (nil), out of range, or ignored
// entirely when a template slot claims the section. IDs are opaque and may
// be missing or duplicated.
type Section struct {
	ID      string  `json:"id,omitempty"`
	Column  *int    `json:"column,omitempty"`
	Header  string  `json:"header,omitempty"`
	Type    string  `json:"type"`
	Content Payload `json:"content"`
}

// ColumnHint returns the column hint and whether one was present.
func (s Section) ColumnHint() (int, bool) {
	if s.Column == nil {
		return 0, false
	}
	return *s.Column, true
}

// Payload is the union of all per-type section contents. Only the fields
// matching the section's type are meaningful; the rest stay zero.
type Payload struct {
	// bullets
	Items []BulletItem `json:"items,omitempty"`

	// table
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`

	// flowchart
	Steps     Steps  `json:"steps,omitempty"`
	Direction string `json:"direction,omitempty"`

	// kpi_box
	Value string `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Label string `json:"label,omitempty"`

	// text_block
	Text string `json:"text,omitempty"`
}

// UnmarshalJSON accepts either the object form or a bare string, which some
// providers emit for text blocks.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Payload{Text: s}
		return nil
	}

	type alias Payload
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Payload(a)
	return nil
}

// BulletItem is one bullet line with an optional hanging-indent level.
type BulletItem struct {
	Text   string `json:"text"`
	Indent int    `json:"indent,omitempty"`
}

// UnmarshalJSON accepts either {"text": ..., "indent": ...} or a bare
// string (indent 0).
func (b *BulletItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = BulletItem{Text: s}
		return nil
	}

	type alias BulletItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = BulletItem(a)
	return nil
}

// Steps is a flowchart step list. Elements may arrive as bare strings or as
// {"text": ...} objects; both decode to the plain step text.
type Steps []string

// UnmarshalJSON flattens mixed string/object step lists.
func (s *Steps) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var str string
		if err := json.Unmarshal(r, &str); err == nil {
			out = append(out, str)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return err
		}
		out = append(out, obj.Text)
	}
	*s = out
	return nil
}

// MarshalDocument encodes a document as indented JSON.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument decodes a document from JSON.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	err := json.Unmarshal(data, &d)
	return d, err
}
