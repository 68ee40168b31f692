package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxFileNameLength = 255  // NAME_MAX
	MaxPageSizeLength = 10   // "letter", "a4", "legal"
)

// Bounds for numeric settings.
const (
	MaxNavigationTimeout = 10 * time.Minute
	MaxLazyLoadTimeout   = 30 * time.Minute
	MaxExportTimeout     = 10 * time.Minute
	MinScrollInterval    = 10 * time.Millisecond
	MaxScrollInterval    = 5 * time.Second
	MaxScrollStep        = 10000 // px
	MaxMarginPx          = 300
)

// Defaults applied by DefaultConfig.
const (
	DefaultInputFile         = "urls.txt"
	DefaultMergedName        = "merged_pdfs.pdf"
	DefaultNavigationTimeout = 60 * time.Second
	DefaultLazyLoadTimeout   = 2 * time.Minute
	DefaultExportTimeout     = 60 * time.Second
	DefaultScrollStep        = 100
	DefaultScrollInterval    = 100 * time.Millisecond
	DefaultPageSize          = "a4"
	DefaultMarginPx          = 30
)

// Config holds all configuration for a conversion batch.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Browser  BrowserConfig  `yaml:"browser"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Scroll   ScrollConfig   `yaml:"scroll"`
	Page     PageConfig     `yaml:"page"`
}

// InputConfig defines where URLs come from.
type InputConfig struct {
	File string `yaml:"file"` // URL list (.txt one per line, or .md links); missing = merge only
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"`     // Working directory for converted and local PDFs (empty = ".")
	Merged  string `yaml:"merged"`  // Merged output file name inside Dir
	NoMerge bool   `yaml:"noMerge"` // Convert only, skip the merge step
}

// BrowserConfig defines how the browser process is launched.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Executable path (empty = auto-detect / ROD_BROWSER_BIN)
	Headless  bool   `yaml:"headless"`  // Default false: visible window
	NoSandbox bool   `yaml:"noSandbox"` // Required in most containers
}

// TimeoutsConfig bounds each blocking browser phase.
type TimeoutsConfig struct {
	Navigation Duration `yaml:"navigation"`
	LazyLoad   Duration `yaml:"lazyLoad"`
	Export     Duration `yaml:"export"`
}

// ScrollConfig tunes lazy-load expansion.
type ScrollConfig struct {
	Step     int      `yaml:"step"`     // px per tick
	Interval Duration `yaml:"interval"` // delay between ticks
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size            string  `yaml:"size"`            // "a4", "letter", "legal"
	MarginPx        float64 `yaml:"marginPx"`        // CSS pixels on every side
	PrintBackground bool    `yaml:"printBackground"` // Default true
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{File: DefaultInputFile},
		Output: OutputConfig{Dir: ".", Merged: DefaultMergedName},
		Browser: BrowserConfig{
			Headless: false,
		},
		Timeouts: TimeoutsConfig{
			Navigation: DurationOf(DefaultNavigationTimeout),
			LazyLoad:   DurationOf(DefaultLazyLoadTimeout),
			Export:     DurationOf(DefaultExportTimeout),
		},
		Scroll: ScrollConfig{
			Step:     DefaultScrollStep,
			Interval: DurationOf(DefaultScrollInterval),
		},
		Page: PageConfig{
			Size:            DefaultPageSize,
			MarginPx:        DefaultMarginPx,
			PrintBackground: true,
		},
	}
}

// Validate checks lengths and ranges.
// Called automatically by LoadConfig, but available for callers that
// build or mutate a Config after loading (env vars, CLI flags).
func (c *Config) Validate() error {
	if err := validateFieldLength("input.file", c.Input.File, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.merged", c.Output.Merged, MaxFileNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}

	if c.Output.Merged == "" {
		return fmt.Errorf("%w: output.merged: required", ErrInvalidValue)
	}
	if fileutil.IsFilePath(c.Output.Merged) {
		return fmt.Errorf("%w: output.merged: %q must be a file name, use output.dir for the location", ErrInvalidValue, c.Output.Merged)
	}
	if !fileutil.HasPDFExtension(c.Output.Merged) {
		return fmt.Errorf("%w: output.merged: %q must end in .pdf", ErrInvalidValue, c.Output.Merged)
	}

	if err := validateDuration("timeouts.navigation", c.Timeouts.Navigation.Duration, time.Second, MaxNavigationTimeout); err != nil {
		return err
	}
	if err := validateDuration("timeouts.lazyLoad", c.Timeouts.LazyLoad.Duration, time.Second, MaxLazyLoadTimeout); err != nil {
		return err
	}
	if err := validateDuration("timeouts.export", c.Timeouts.Export.Duration, time.Second, MaxExportTimeout); err != nil {
		return err
	}
	if err := validateDuration("scroll.interval", c.Scroll.Interval.Duration, MinScrollInterval, MaxScrollInterval); err != nil {
		return err
	}

	if c.Scroll.Step < 1 || c.Scroll.Step > MaxScrollStep {
		return fmt.Errorf("%w: scroll.step: must be between 1 and %d, got %d", ErrInvalidValue, MaxScrollStep, c.Scroll.Step)
	}
	if c.Page.MarginPx < 0 || c.Page.MarginPx > MaxMarginPx {
		return fmt.Errorf("%w: page.marginPx: must be between 0 and %d, got %.1f", ErrInvalidValue, MaxMarginPx, c.Page.MarginPx)
	}

	switch strings.ToLower(c.Page.Size) {
	case "a4", "letter", "legal":
	default:
		return fmt.Errorf("%w: page.size: %q (must be a4, letter, or legal)", ErrInvalidValue, c.Page.Size)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration checks that d lies within [lo, hi].
func validateDuration(fieldName string, d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("%w: %s: must be between %v and %v, got %v", ErrInvalidValue, fieldName, lo, hi, d)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-web2pdf", name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
