package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/config"
	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/hints"
	"github.com/alnah/go-web2pdf/internal/urllist"
)

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrOutputDir      = errors.New("cannot create output directory")
)

// dirPermissions is used for the output directory (owner rwx, group rx).
const dirPermissions = 0o750

// runConvertCmd parses flags, installs signal handling and runs a batch.
func runConvertCmd(args []string, env *Environment) int {
	f, positional, err := parseConvertFlags(args, env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}
	if len(positional) > 1 {
		fmt.Fprintf(env.Stderr, "error: %v: expected one URL list, got %s\n", ErrTooManyArgs, strings.Join(positional, " "))
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runConvert(ctx, f, positional, env)
}

// runConvert executes the full pipeline: URL list, conversions, merge.
func runConvert(ctx context.Context, f *convertFlags, positional []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr, env.Environ())
	logger := newLogger(env.Stderr, f.common)

	cfg, configName, err := resolveConfig(f.common.config, env)
	if err != nil {
		return reportError(env, err, hintFor(err, configName, ""))
	}
	f.mergeInto(cfg)
	if len(positional) == 1 {
		cfg.Input.File = positional[0]
	}
	if err := cfg.Validate(); err != nil {
		return reportError(env, err, "")
	}

	urls := readURLList(cfg.Input.File, logger)

	if err := ensureOutputDir(cfg.Output.Dir); err != nil {
		return reportError(env, err, hints.ForOutputDirectory())
	}

	pipeline, err := env.NewPipeline(pipelineOptions(cfg, logger)...)
	if err != nil {
		return reportError(env, err, "")
	}

	start := env.Now()
	var report *web2pdf.RunReport
	if cfg.Output.NoMerge {
		report, err = pipeline.ConvertOnly(ctx, urls)
	} else {
		report, err = pipeline.Run(ctx, urls)
	}

	printRunSummary(env.Stdout, report, env.Now().Sub(start))

	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(env.Stderr, "interrupted")
			return ExitGeneral
		}
		return reportError(env, err, hintFor(err, configName, cfg.Input.File))
	}
	return runExitCode(report, cfg.Output.NoMerge)
}

// resolveConfig layers defaults, the config file and WEB2PDF_* variables.
// Returns the config name that was looked up (flag first, then env).
func resolveConfig(flagName string, env *Environment) (*config.Config, string, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := flagName
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, name, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, name, nil
}

// readURLList loads the URL list. A missing file means merge only; any
// other read failure is logged and treated as an empty list.
func readURLList(path string, logger *slog.Logger) []string {
	if path == "" {
		return nil
	}

	urls, err := urllist.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("URL list not found, merging existing PDFs only", "file", path)
		} else {
			logger.Error("reading URL list failed", "file", path, "error", err)
		}
		return nil
	}

	for _, u := range urls {
		if !fileutil.IsURL(u) {
			logger.Warn("entry is not an http(s) URL", "entry", u)
		}
	}
	logger.Debug("URL list loaded", "file", path, "count", len(urls))
	return urls
}

// ensureOutputDir creates dir (and parents) if needed.
func ensureOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputDir, dir, err)
	}
	return nil
}

// pipelineOptions maps a validated config onto library options.
func pipelineOptions(cfg *config.Config, logger *slog.Logger) []web2pdf.Option {
	return []web2pdf.Option{
		web2pdf.WithWorkDir(cfg.Output.Dir),
		web2pdf.WithMergedName(cfg.Output.Merged),
		web2pdf.WithBrowserBin(cfg.Browser.Bin),
		web2pdf.WithHeadless(cfg.Browser.Headless),
		web2pdf.WithNoSandbox(cfg.Browser.NoSandbox),
		web2pdf.WithNavigationTimeout(cfg.Timeouts.Navigation.Duration),
		web2pdf.WithLazyLoadTimeout(cfg.Timeouts.LazyLoad.Duration),
		web2pdf.WithExportTimeout(cfg.Timeouts.Export.Duration),
		web2pdf.WithScroll(cfg.Scroll.Step, cfg.Scroll.Interval.Duration),
		web2pdf.WithPage(web2pdf.PageSettings{
			Size:            strings.ToLower(cfg.Page.Size),
			MarginPx:        cfg.Page.MarginPx,
			PrintBackground: cfg.Page.PrintBackground,
		}),
		web2pdf.WithLogger(logger),
	}
}

// runExitCode maps a completed run to an exit code.
// With merging on, a written merge plus failures is partial. Without
// merging, a batch where nothing succeeded reports its first failure.
func runExitCode(report *web2pdf.RunReport, noMerge bool) int {
	if report == nil || report.Failed() == 0 {
		return ExitSuccess
	}
	if noMerge && report.Succeeded() == 0 {
		for _, res := range report.Results {
			if !res.Succeeded() {
				return exitCodeFor(res.Err)
			}
		}
	}
	return ExitPartial
}

// hintFor picks an actionable hint for err.
func hintFor(err error, configName, inputFile string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && configName != "":
		if fileutil.IsFilePath(configName) {
			return hints.ForConfigNotFound([]string{configName})
		}
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, web2pdf.ErrNoPDFs), errors.Is(err, web2pdf.ErrNoValidContent):
		return hints.ForNothingToMerge(inputFile)
	case errors.Is(err, web2pdf.ErrBrowserLaunch):
		return hints.ForBrowserLaunch()
	case errors.Is(err, web2pdf.ErrNavigationTimeout):
		return hints.ForNavigationTimeout()
	case errors.Is(err, web2pdf.ErrLazyLoad):
		return hints.ForLazyLoad()
	}
	return ""
}

// reportError prints err with its hint and returns the mapped exit code.
func reportError(env *Environment, err error, hint string) int {
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hint)
	return exitCodeFor(err)
}

// printRunSummary writes per-URL outcomes and the final summary line.
func printRunSummary(w io.Writer, report *web2pdf.RunReport, elapsed time.Duration) {
	if report == nil {
		return
	}

	for _, res := range report.Results {
		if res.Succeeded() {
			continue
		}
		fmt.Fprintf(w, "FAILED %s: %v%s\n", res.URL, res.Err, hintFor(res.Err, "", ""))
	}

	line := fmt.Sprintf("%d converted, %d failed", report.Succeeded(), report.Failed())
	if m := report.Merge; m != nil {
		line += fmt.Sprintf(", merged %d documents (%d pages) into %s", len(m.Merged), m.Pages, m.OutputPath)
		if len(m.Skipped) > 0 {
			line += fmt.Sprintf(", %d skipped", len(m.Skipped))
		}
	}
	fmt.Fprintf(w, "%s in %v\n", line, elapsed.Round(time.Second))
}
