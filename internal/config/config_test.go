package config

// Notes:
// - LoadConfig by name searches the current directory; those tests change
//   the working directory and therefore cannot run in parallel.
// - The user config directory branch of SearchPaths is only checked for its
//   suffix since os.UserConfigDir depends on the host.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to a YAML file in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "web2pdf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Shipped defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.Input.File != "urls.txt" {
		t.Errorf("Input.File = %q, want %q", cfg.Input.File, "urls.txt")
	}
	if cfg.Output.Merged != "merged_pdfs.pdf" {
		t.Errorf("Output.Merged = %q, want %q", cfg.Output.Merged, "merged_pdfs.pdf")
	}
	if cfg.Browser.Headless {
		t.Error("Browser.Headless = true, want visible window by default")
	}
	if cfg.Timeouts.Navigation.Duration != 60*time.Second {
		t.Errorf("Timeouts.Navigation = %v, want 60s", cfg.Timeouts.Navigation.Duration)
	}
	if cfg.Page.Size != "a4" || cfg.Page.MarginPx != 30 || !cfg.Page.PrintBackground {
		t.Errorf("Page = %+v, want a4 / 30px / backgrounds", cfg.Page)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File decoding over defaults
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
input:
  file: reading-list.md
output:
  dir: out
browser:
  bin: /usr/bin/chromium
  headless: true
timeouts:
  navigation: 90
  lazyLoad: 45s
scroll:
  interval: 250ms
page:
  size: letter
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Input.File != "reading-list.md" {
		t.Errorf("Input.File = %q, want %q", cfg.Input.File, "reading-list.md")
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, "out")
	}
	if cfg.Output.Merged != DefaultMergedName {
		t.Errorf("Output.Merged = %q, want default %q", cfg.Output.Merged, DefaultMergedName)
	}
	if !cfg.Browser.Headless || cfg.Browser.Bin != "/usr/bin/chromium" {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
	if cfg.Timeouts.Navigation.Duration != 90*time.Second {
		t.Errorf("Timeouts.Navigation = %v, want 90s (numeric seconds)", cfg.Timeouts.Navigation.Duration)
	}
	if cfg.Timeouts.LazyLoad.Duration != 45*time.Second {
		t.Errorf("Timeouts.LazyLoad = %v, want 45s", cfg.Timeouts.LazyLoad.Duration)
	}
	if cfg.Timeouts.Export.Duration != DefaultExportTimeout {
		t.Errorf("Timeouts.Export = %v, want default %v", cfg.Timeouts.Export.Duration, DefaultExportTimeout)
	}
	if cfg.Scroll.Interval.Duration != 250*time.Millisecond {
		t.Errorf("Scroll.Interval = %v, want 250ms", cfg.Scroll.Interval.Duration)
	}
	if cfg.Scroll.Step != DefaultScrollStep {
		t.Errorf("Scroll.Step = %d, want default %d", cfg.Scroll.Step, DefaultScrollStep)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want %q", cfg.Page.Size, "letter")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown key", content: "browser:\n  headles: true\n", wantErr: ErrConfigParse},
		{name: "bad duration", content: "timeouts:\n  navigation: soon\n", wantErr: ErrConfigParse},
		{name: "zero navigation timeout", content: "timeouts:\n  navigation: 0s\n", wantErr: ErrInvalidValue},
		{name: "merged with directory", content: "output:\n  merged: out/all.pdf\n", wantErr: ErrInvalidValue},
		{name: "merged without pdf suffix", content: "output:\n  merged: all.txt\n", wantErr: ErrInvalidValue},
		{name: "unknown page size", content: "page:\n  size: tabloid\n", wantErr: ErrInvalidValue},
		{name: "page size too long", content: "page:\n  size: " + strings.Repeat("a", MaxPageSizeLength+1) + "\n", wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_EmptyName(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want %v", err, ErrEmptyConfigName)
	}
}

func TestLoadConfig_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig() error = %v, want %v", err, ErrConfigNotFound)
	}
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile("batch.yml", []byte("output:\n  merged: book.pdf\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("batch")
	if err != nil {
		t.Fatalf("LoadConfig(\"batch\") unexpected error: %v", err)
	}
	if cfg.Output.Merged != "book.pdf" {
		t.Errorf("Output.Merged = %q, want %q", cfg.Output.Merged, "book.pdf")
	}
}

func TestLoadConfig_ByNameNotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig("nope")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("LoadConfig(\"nope\") error = %v, want %v", err, ErrConfigNotFound)
	}
	if !strings.Contains(err.Error(), "nope.yaml") {
		t.Errorf("error should list tried paths, got %q", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestSearchPaths - Lookup order
// ---------------------------------------------------------------------------

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("web2pdf")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() returned %d paths, want at least 2", len(paths))
	}
	if paths[0] != "web2pdf.yaml" || paths[1] != "web2pdf.yml" {
		t.Errorf("local paths = %v, want web2pdf.yaml then web2pdf.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "go-web2pdf/web2pdf.") {
			t.Errorf("user path %q should live under go-web2pdf/", p)
		}
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Range checks on mutated configs
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero scroll step", mutate: func(c *Config) { c.Scroll.Step = 0 }, wantErr: ErrInvalidValue},
		{name: "scroll interval too short", mutate: func(c *Config) { c.Scroll.Interval = DurationOf(time.Millisecond) }, wantErr: ErrInvalidValue},
		{name: "negative margin", mutate: func(c *Config) { c.Page.MarginPx = -1 }, wantErr: ErrInvalidValue},
		{name: "lazy-load above bound", mutate: func(c *Config) { c.Timeouts.LazyLoad = DurationOf(time.Hour) }, wantErr: ErrInvalidValue},
		{name: "empty merged name", mutate: func(c *Config) { c.Output.Merged = "" }, wantErr: ErrInvalidValue},
		{name: "upper-case size accepted", mutate: func(c *Config) { c.Page.Size = "A4" }},
		{name: "upper-case merged suffix accepted", mutate: func(c *Config) { c.Output.Merged = "ALL.PDF" }},
		{name: "browser bin too long", mutate: func(c *Config) { c.Browser.Bin = strings.Repeat("x", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDuration_UnmarshalText - String parsing
// ---------------------------------------------------------------------------

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "60s", want: 60 * time.Second},
		{input: "1m30s", want: 90 * time.Second},
		{input: "", want: 0},
		{input: "sixty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && d.Duration != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.input, d.Duration, tt.want)
			}
		})
	}
}
