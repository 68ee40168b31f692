package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/hints"
)

// runMergeCmd merges the PDFs already present in the output directory.
func runMergeCmd(args []string, env *Environment) int {
	f, positional, err := parseMergeFlags(args, env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}
	if len(positional) > 0 {
		fmt.Fprintf(env.Stderr, "error: %v: merge takes no arguments\n", ErrTooManyArgs)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runMerge(ctx, f, env)
}

func runMerge(ctx context.Context, f *mergeFlags, env *Environment) int {
	warnUnknownEnvVars(env.Stderr, env.Environ())
	logger := newLogger(env.Stderr, f.common)

	cfg, configName, err := resolveConfig(f.common.config, env)
	if err != nil {
		return reportError(env, err, hintFor(err, configName, ""))
	}
	applyOutputFlags(&f.output, f.changed, cfg)
	if err := cfg.Validate(); err != nil {
		return reportError(env, err, "")
	}

	if err := ensureOutputDir(cfg.Output.Dir); err != nil {
		return reportError(env, err, hints.ForOutputDirectory())
	}

	pipeline, err := env.NewPipeline(pipelineOptions(cfg, logger)...)
	if err != nil {
		return reportError(env, err, "")
	}

	report, err := pipeline.MergeOnly(ctx)
	if err != nil {
		return reportError(env, err, hintFor(err, configName, ""))
	}

	printMergeSummary(env.Stdout, report)
	return ExitSuccess
}

// printMergeSummary lists the bookmarks and the output location.
func printMergeSummary(w io.Writer, m *web2pdf.MergeReport) {
	for _, entry := range m.TOC {
		fmt.Fprintf(w, "  p.%-4d %s\n", entry.Page, entry.Label)
	}
	for _, s := range m.Skipped {
		fmt.Fprintf(w, "SKIPPED %s: %v\n", s.Path, s.Err)
	}
	fmt.Fprintf(w, "merged %d documents (%d pages) into %s\n", len(m.Merged), m.Pages, m.OutputPath)
}
