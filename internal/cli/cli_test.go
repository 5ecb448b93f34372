package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"generate", "layout", "visualize", "run", "templates", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want %v", c.Logger.GetLevel(), log.DebugLevel)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input extension", "", "notes.txt", "notes"},
		{"output with format extension", "page.svg", "notes.txt", "page"},
		{"output without extension", "out/page", "notes.txt", "out/page"},
		{"output with unrelated extension", "page.data", "notes.txt", "page.data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "page")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"svg":  []byte("<svg/>"),
			"json": []byte("{}"),
		},
		formats:      []string{"svg", "json"},
		input:        filepath.Join(dir, "page.txt"),
		output:       base,
		sectionCount: 3,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	for _, ext := range []string{"svg", "json"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Fatalf("expected artifact %s: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("artifact %s is empty", ext)
		}
	}
}

func TestWriteArtifactsSingleFormatUsesOutputDirectly(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom-name.svg")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg"},
		input:     "page.txt",
		output:    out,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output at %s: %v", out, err)
	}
}
