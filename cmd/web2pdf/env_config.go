package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/config"
)

// envPrefix marks the variables read by web2pdf.
const envPrefix = "WEB2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // WEB2PDF_CONFIG: config file name or path
	InputFile  string // WEB2PDF_INPUT: URL list file
	OutputDir  string // WEB2PDF_OUTPUT_DIR: working directory
	Merged     string // WEB2PDF_MERGED: merged output file name

	BrowserBin string // WEB2PDF_BROWSER_BIN: browser executable
	Headless   *bool  // WEB2PDF_HEADLESS: 1/true/0/false
	NoSandbox  *bool  // WEB2PDF_NO_SANDBOX: 1/true/0/false

	NavigationTimeout time.Duration // WEB2PDF_NAV_TIMEOUT
	LazyLoadTimeout   time.Duration // WEB2PDF_LAZY_TIMEOUT
	ExportTimeout     time.Duration // WEB2PDF_EXPORT_TIMEOUT

	PageSize string // WEB2PDF_PAGE_SIZE: a4, letter, legal
}

// knownEnvVars lists valid WEB2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WEB2PDF_CONFIG":         true,
	"WEB2PDF_INPUT":          true,
	"WEB2PDF_OUTPUT_DIR":     true,
	"WEB2PDF_MERGED":         true,
	"WEB2PDF_BROWSER_BIN":    true,
	"WEB2PDF_HEADLESS":       true,
	"WEB2PDF_NO_SANDBOX":     true,
	"WEB2PDF_NAV_TIMEOUT":    true,
	"WEB2PDF_LAZY_TIMEOUT":   true,
	"WEB2PDF_EXPORT_TIMEOUT": true,
	"WEB2PDF_PAGE_SIZE":      true,
	"WEB2PDF_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and booleans are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("WEB2PDF_CONFIG"),
		InputFile:  getenv("WEB2PDF_INPUT"),
		OutputDir:  getenv("WEB2PDF_OUTPUT_DIR"),
		Merged:     getenv("WEB2PDF_MERGED"),
		BrowserBin: getenv("WEB2PDF_BROWSER_BIN"),
		PageSize:   getenv("WEB2PDF_PAGE_SIZE"),
	}

	cfg.Headless = parseEnvBool(getenv("WEB2PDF_HEADLESS"))
	cfg.NoSandbox = parseEnvBool(getenv("WEB2PDF_NO_SANDBOX"))

	cfg.NavigationTimeout = parseEnvDuration(getenv("WEB2PDF_NAV_TIMEOUT"))
	cfg.LazyLoadTimeout = parseEnvDuration(getenv("WEB2PDF_LAZY_TIMEOUT"))
	cfg.ExportTimeout = parseEnvDuration(getenv("WEB2PDF_EXPORT_TIMEOUT"))

	return cfg
}

// parseEnvBool returns nil for unset or invalid values.
func parseEnvBool(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// parseEnvDuration accepts "90s"-style durations or plain seconds.
// Returns 0 for unset or invalid values.
func parseEnvDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 0
}

// warnUnknownEnvVars logs warnings for unrecognized WEB2PDF_* variables.
// Helps catch typos like WEB2PDF_HEADLES.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the config file.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputFile != "" {
		cfg.Input.File = env.InputFile
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Merged != "" {
		cfg.Output.Merged = env.Merged
	}

	if env.BrowserBin != "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.Headless != nil {
		cfg.Browser.Headless = *env.Headless
	}
	if env.NoSandbox != nil {
		cfg.Browser.NoSandbox = *env.NoSandbox
	}

	if env.NavigationTimeout > 0 {
		cfg.Timeouts.Navigation = config.DurationOf(env.NavigationTimeout)
	}
	if env.LazyLoadTimeout > 0 {
		cfg.Timeouts.LazyLoad = config.DurationOf(env.LazyLoadTimeout)
	}
	if env.ExportTimeout > 0 {
		cfg.Timeouts.Export = config.DurationOf(env.ExportTimeout)
	}

	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
}
