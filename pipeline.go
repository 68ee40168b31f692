package web2pdf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// Pipeline converts URLs to PDFs and merges them with local PDFs.
// Create with New. A Pipeline holds no browser between runs and is safe
// for sequential reuse.
type Pipeline struct {
	cfg        settings
	dispatcher *Dispatcher
	merger     *Merger
	logger     *slog.Logger
}

// New creates a Pipeline. Use options to customize behavior
// (e.g., WithWorkDir, WithHeadless, WithNavigationTimeout).
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.page.Validate(); err != nil {
		return nil, err
	}
	if fileutil.IsFilePath(cfg.mergedName) || !fileutil.HasPDFExtension(cfg.mergedName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMergedName, cfg.mergedName)
	}

	return &Pipeline{
		cfg:        cfg,
		dispatcher: newDispatcher(newWorker(cfg), cfg.logger),
		merger:     newMerger(cfg),
		logger:     cfg.logger,
	}, nil
}

// MergedPath returns the path of the merged output.
func (p *Pipeline) MergedPath() string { return p.merger.OutputPath() }

// Run converts urls concurrently, waits for every task, then merges the
// successful outputs (input order) and the local PDFs of the work dir.
// Failed conversions are reported in RunReport.Results and never abort
// the run. Returns ErrNoPDFs or ErrNoValidContent when nothing could be
// merged, or ctx.Err() when cancelled.
func (p *Pipeline) Run(ctx context.Context, urls []string) (*RunReport, error) {
	report, err := p.ConvertOnly(ctx, urls)
	if err != nil {
		return report, err
	}

	plan, scanErr := BuildMergePlan(report.Results, p.cfg.workDir, p.cfg.mergedName)
	if scanErr != nil {
		p.logger.Warn("scanning for local PDFs failed", "dir", p.cfg.workDir, "error", scanErr)
	}

	report.Merge, err = p.merger.Merge(ctx, plan)
	return report, err
}

// ConvertOnly converts urls without merging.
func (p *Pipeline) ConvertOnly(ctx context.Context, urls []string) (*RunReport, error) {
	report := &RunReport{}

	tasks := NewTasks(urls)
	if len(tasks) == 0 {
		p.logger.Info("no URLs to convert")
		return report, nil
	}

	p.logger.Info("converting URLs", "count", len(tasks))
	batch := p.dispatcher.DispatchTasks(ctx, tasks)

	results, err := batch.Wait(ctx)
	report.Results = results
	if err != nil {
		return report, err
	}

	p.logger.Info("conversions finished", "succeeded", report.Succeeded(), "failed", report.Failed())
	return report, nil
}

// MergeOnly merges the PDFs already in the work dir.
func (p *Pipeline) MergeOnly(ctx context.Context) (*MergeReport, error) {
	plan, err := BuildMergePlan(nil, p.cfg.workDir, p.cfg.mergedName)
	if err != nil {
		p.logger.Warn("scanning for local PDFs failed", "dir", p.cfg.workDir, "error", err)
	}
	return p.merger.Merge(ctx, plan)
}
