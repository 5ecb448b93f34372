package layout

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestEmbeddedStoreResolve(t *testing.T) {
	store := NewEmbeddedStore()

	for _, id := range []string{"T1", "T2", "T3", "T4"} {
		tmpl, ok := store.Resolve(id)
		if !ok {
			t.Fatalf("Resolve(%q) = absent, want template", id)
		}
		if len(tmpl.Slots) == 0 {
			t.Errorf("Resolve(%q) returned template with no slots", id)
		}
	}
}

func TestEmbeddedStoreResolveAlias(t *testing.T) {
	store := NewEmbeddedStore()

	short, ok := store.Resolve("T1")
	if !ok {
		t.Fatal("Resolve(T1) = absent")
	}
	long, ok := store.Resolve("T1_problem_solving")
	if !ok {
		t.Fatal("Resolve(T1_problem_solving) = absent")
	}
	if short.ID != long.ID {
		t.Errorf("alias resolves to %q, full name to %q", short.ID, long.ID)
	}
}

func TestEmbeddedStoreUnknownID(t *testing.T) {
	store := NewEmbeddedStore()

	if tmpl, ok := store.Resolve("T99"); ok {
		t.Errorf("Resolve(T99) = %+v, want absent", tmpl)
	}
}

func TestEmbeddedStoreIDs(t *testing.T) {
	ids := NewEmbeddedStore().IDs()
	if !slices.Contains(ids, "T1") {
		t.Errorf("IDs() = %v, want T1 included", ids)
	}
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	tmplJSON := `{"id": "custom", "name": "Custom", "slots": [
		{"id": "a", "column": 0, "order": 0, "min_height_mm": 30, "max_height_mm": 90}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "custom.json"), []byte(tmplJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewDirStore(dir)

	tmpl, ok := store.Resolve("custom")
	if !ok {
		t.Fatal("Resolve(custom) = absent, want template")
	}
	if tmpl.Slots[0].MaxHeightMM != 90 {
		t.Errorf("slot max height = %g, want 90", tmpl.Slots[0].MaxHeightMM)
	}

	if _, ok := store.Resolve("missing"); ok {
		t.Error("Resolve(missing) should report absent")
	}

	if ids := store.IDs(); !slices.Contains(ids, "custom") {
		t.Errorf("IDs() = %v, want custom included", ids)
	}
}

func TestDirStoreZeroSlots(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{"id": "empty", "slots": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := NewDirStore(dir).Resolve("empty"); ok {
		t.Error("zero-slot template should be reported as absent")
	}
}

func TestDirStoreMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := NewDirStore(dir).Resolve("bad"); ok {
		t.Error("malformed template should be reported as absent")
	}
}

func TestChainStorePrecedence(t *testing.T) {
	dir := t.TempDir()
	override := `{"id": "T1-override", "slots": [
		{"id": "only", "column": 0, "order": 0, "min_height_mm": 10, "max_height_mm": 50}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "T1_problem_solving.json"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	chain := NewChainStore(NewDirStore(dir), NewEmbeddedStore())

	tmpl, ok := chain.Resolve("T1")
	if !ok {
		t.Fatal("Resolve(T1) = absent")
	}
	if tmpl.ID != "T1-override" {
		t.Errorf("chain resolved %q, want the directory override first", tmpl.ID)
	}

	// Built-ins still reachable through the chain.
	if _, ok := chain.Resolve("T2"); !ok {
		t.Error("Resolve(T2) through chain = absent, want embedded template")
	}
}
