package main

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-web2pdf/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output location flags.
type outputFlags struct {
	dir    string
	merged string
}

// browserFlags holds browser process flags.
type browserFlags struct {
	bin       string
	headless  bool
	noSandbox bool
}

// timeoutFlags holds per-phase timeouts.
type timeoutFlags struct {
	navigation time.Duration
	lazyLoad   time.Duration
	export     time.Duration
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size     string
	marginPx float64
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   outputFlags
	browser  browserFlags
	timeouts timeoutFlags
	page     pageFlags
	noMerge  bool

	// changed records flags set on the command line, so that zero values
	// like --headless=false still override the config file.
	changed map[string]bool
}

// mergeFlags holds flags for the merge command.
type mergeFlags struct {
	common  commonFlags
	output  outputFlags
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

// addOutputFlags adds output location flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output-dir", "o", "", "directory for converted and merged PDFs")
	fs.StringVarP(&f.merged, "merged", "m", "", "merged file name (default "+config.DefaultMergedName+")")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Edge executable (default: auto-detect)")
	fs.BoolVar(&f.headless, "headless", false, "run the browser without a window")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (Docker/CI)")
}

// addTimeoutFlags adds timeout flags to a FlagSet.
func addTimeoutFlags(fs *flag.FlagSet, f *timeoutFlags) {
	fs.DurationVar(&f.navigation, "nav-timeout", 0, "page load timeout (e.g., 60s)")
	fs.DurationVar(&f.lazyLoad, "lazy-timeout", 0, "lazy-load scrolling timeout (e.g., 2m)")
	fs.DurationVar(&f.export, "export-timeout", 0, "PDF export timeout (e.g., 60s)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.Float64Var(&f.marginPx, "margin-px", 0, "margin in CSS pixels (0-300)")
}

// changedFlags returns the names of flags set on the command line.
func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { changed[f.Name] = true })
	return changed
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, env *Environment) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addBrowserFlags(fs, &f.browser)
	addTimeoutFlags(fs, &f.timeouts)
	addPageFlags(fs, &f.page)
	fs.BoolVar(&f.noMerge, "no-merge", false, "convert only, skip the merge step")

	fs.Usage = func() { printConvertUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// parseMergeFlags parses merge command flags.
func parseMergeFlags(args []string, env *Environment) (*mergeFlags, []string, error) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &mergeFlags{}

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)

	fs.Usage = func() { printMergeUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// applyOutputFlags applies set output flags over cfg.
func applyOutputFlags(f *outputFlags, changed map[string]bool, cfg *config.Config) {
	if changed["output-dir"] {
		cfg.Output.Dir = f.dir
	}
	if changed["merged"] {
		cfg.Output.Merged = f.merged
	}
}

// mergeInto applies set convert flags over cfg (highest priority layer).
func (f *convertFlags) mergeInto(cfg *config.Config) {
	applyOutputFlags(&f.output, f.changed, cfg)

	if f.changed["no-merge"] {
		cfg.Output.NoMerge = f.noMerge
	}
	if f.changed["browser-bin"] {
		cfg.Browser.Bin = f.browser.bin
	}
	if f.changed["headless"] {
		cfg.Browser.Headless = f.browser.headless
	}
	if f.changed["no-sandbox"] {
		cfg.Browser.NoSandbox = f.browser.noSandbox
	}
	if f.changed["nav-timeout"] {
		cfg.Timeouts.Navigation = config.DurationOf(f.timeouts.navigation)
	}
	if f.changed["lazy-timeout"] {
		cfg.Timeouts.LazyLoad = config.DurationOf(f.timeouts.lazyLoad)
	}
	if f.changed["export-timeout"] {
		cfg.Timeouts.Export = config.DurationOf(f.timeouts.export)
	}
	if f.changed["page-size"] {
		cfg.Page.Size = f.page.size
	}
	if f.changed["margin-px"] {
		cfg.Page.MarginPx = f.page.marginPx
	}
}
