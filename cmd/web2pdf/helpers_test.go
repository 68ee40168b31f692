package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	web2pdf "github.com/alnah/go-web2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pipeline and environment
// ---------------------------------------------------------------------------

// fakePipeline records calls and returns canned reports.
type fakePipeline struct {
	mu sync.Mutex

	runReport   *web2pdf.RunReport
	runErr      error
	mergeReport *web2pdf.MergeReport
	mergeErr    error
	mergedPath  string

	runURLs     []string
	runCalls    int
	convertOnly int
	mergeOnly   int
}

func (f *fakePipeline) Run(_ context.Context, urls []string) (*web2pdf.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runCalls++
	f.runURLs = urls
	return f.report(), f.runErr
}

func (f *fakePipeline) ConvertOnly(_ context.Context, urls []string) (*web2pdf.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convertOnly++
	f.runURLs = urls
	r := f.report()
	r.Merge = nil
	return r, f.runErr
}

func (f *fakePipeline) MergeOnly(context.Context) (*web2pdf.MergeReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mergeOnly++
	return f.mergeReport, f.mergeErr
}

func (f *fakePipeline) MergedPath() string { return f.mergedPath }

func (f *fakePipeline) report() *web2pdf.RunReport {
	if f.runReport == nil {
		return &web2pdf.RunReport{}
	}
	clone := *f.runReport
	return &clone
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	options int // options passed to the last NewPipeline call
}

// newTestEnv returns an Environment backed by vars and the given pipeline.
// Options are validated through web2pdf.New so mapping errors surface.
func newTestEnv(t *testing.T, vars map[string]string, p *fakePipeline) *testEnv {
	t.Helper()

	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewPipeline: func(opts ...web2pdf.Option) (pipelineRunner, error) {
			te.options = len(opts)
			if _, err := web2pdf.New(opts...); err != nil {
				return nil, err
			}
			return p, nil
		},
	}
	return te
}
