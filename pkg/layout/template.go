package layout

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultTemplateID is assumed when a document declares no template.
const DefaultTemplateID = "T1"

// A Slot is one template-declared placement rule. Slots only suggest
// placement for matching content; they never create or delete sections.
type Slot struct {
	ID          string  `json:"id"`
	Column      int     `json:"column"`
	Order       int     `json:"order"`
	MinHeightMM float64 `json:"min_height_mm"`
	MaxHeightMM float64 `json:"max_height_mm"`
}

// A Template is a named, ordered list of slots.
type Template struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Slots []Slot `json:"slots"`
}

// Store resolves template ids to templates.
//
// Resolve returns (nil, false) for unknown ids, missing files, and
// templates that declare zero slots: absence is a normal condition that
// callers answer with automatic flow, never an error.
type Store interface {
	Resolve(id string) (*Template, bool)

	// IDs lists the resolvable template ids, for display.
	IDs() []string
}

// aliases maps the short template ids to their file basenames.
var aliases = map[string]string{
	"T1": "T1_problem_solving",
	"T2": "T2_comparison",
	"T3": "T3_policy_proposal",
	"T4": "T4_workflow",
}

//go:embed templates/*.json
var embeddedFS embed.FS

// EmbeddedStore serves the built-in templates compiled into the binary.
type EmbeddedStore struct{}

// NewEmbeddedStore creates a store over the built-in templates.
func NewEmbeddedStore() Store {
	return EmbeddedStore{}
}

// Resolve looks up a built-in template by id or alias.
func (EmbeddedStore) Resolve(id string) (*Template, bool) {
	name := id
	if alias, ok := aliases[id]; ok {
		name = alias
	}
	data, err := embeddedFS.ReadFile("templates/" + name + ".json")
	if err != nil {
		return nil, false
	}
	return decodeTemplate(data)
}

// IDs lists the built-in template ids.
func (EmbeddedStore) IDs() []string {
	return []string{"T1", "T2", "T3", "T4"}
}

// DirStore serves templates from a directory of <id>.json files. It lets
// operators override or extend the built-in set without rebuilding.
type DirStore struct {
	dir string
}

// NewDirStore creates a store over the given directory.
func NewDirStore(dir string) Store {
	return &DirStore{dir: dir}
}

// Resolve reads <dir>/<id>.json (or the aliased basename). Missing or
// unreadable files report absence, not an error.
func (s *DirStore) Resolve(id string) (*Template, bool) {
	name := id
	if alias, ok := aliases[id]; ok {
		name = alias
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return nil, false
	}
	return decodeTemplate(data)
}

// IDs lists the ids of the JSON files present in the directory.
func (s *DirStore) IDs() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
	}
	return ids
}

// chainStore tries stores in order; the first hit wins.
type chainStore struct {
	stores []Store
}

// NewChainStore combines stores with earlier ones taking precedence.
// Typical use: a DirStore of operator overrides in front of the
// EmbeddedStore built-ins.
func NewChainStore(stores ...Store) Store {
	return &chainStore{stores: stores}
}

func (c *chainStore) Resolve(id string) (*Template, bool) {
	for _, s := range c.stores {
		if t, ok := s.Resolve(id); ok {
			return t, true
		}
	}
	return nil, false
}

func (c *chainStore) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range c.stores {
		for _, id := range s.IDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// decodeTemplate parses template JSON. A template with zero slots is
// reported as absent so callers fall back to automatic flow.
func decodeTemplate(data []byte) (*Template, bool) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	if len(t.Slots) == 0 {
		return nil, false
	}
	return &t, true
}
