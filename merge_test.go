package web2pdf

// Notes:
// - Merger is exercised through mockBackend; the pdfcpu backend has its own
//   integration test (pdfcpu_integration_test.go).
// - Plan entries are local files so the "no output on failure" checks can
//   look at the work directory.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestMerger(t *testing.T, backend *mockBackend) (*Merger, string) {
	t.Helper()
	dir := t.TempDir()
	s := defaultSettings()
	s.workDir = dir
	s.backend = backend
	return newMerger(s), dir
}

func localPlan(dir string, names ...string) MergePlan {
	var plan MergePlan
	for _, n := range names {
		plan.Entries = append(plan.Entries, PlanEntry{Path: filepath.Join(dir, n), Source: SourceLocal})
	}
	return plan
}

// ---------------------------------------------------------------------------
// TestMerge - Page accounting and TOC
// ---------------------------------------------------------------------------

func TestMerge_TwoDocuments(t *testing.T) {
	t.Parallel()

	backend := newMockBackend(map[string]int{"a.pdf": 2, "b.pdf": 3})
	m, dir := newTestMerger(t, backend)

	report, err := m.Merge(context.Background(), localPlan(dir, "a.pdf", "b.pdf"))
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if report.Pages != 5 {
		t.Errorf("Pages = %d, want 5", report.Pages)
	}
	wantTOC := []TOCEntry{
		{Level: 1, Label: "1. a", Page: 1},
		{Level: 1, Label: "2. b", Page: 3},
	}
	if !reflect.DeepEqual(report.TOC, wantTOC) {
		t.Errorf("TOC = %+v, want %+v", report.TOC, wantTOC)
	}
	if !reflect.DeepEqual(backend.tocs[0], wantTOC) {
		t.Errorf("bookmarks written = %+v, want %+v", backend.tocs[0], wantTOC)
	}

	out := filepath.Join(dir, DefaultMergedName)
	if report.OutputPath != out {
		t.Errorf("OutputPath = %q, want %q", report.OutputPath, out)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("merged output missing: %v", err)
	}
	if info.Mode().Perm() != filePermissions {
		t.Errorf("merged output mode = %v, want %v", info.Mode().Perm(), os.FileMode(filePermissions))
	}
}

func TestMerge_SkippedEntryKeepsOrdinal(t *testing.T) {
	t.Parallel()

	backend := newMockBackend(map[string]int{"a.pdf": 2, "c.pdf": 1, "empty.pdf": 0})
	m, dir := newTestMerger(t, backend)

	report, err := m.Merge(context.Background(), localPlan(dir, "a.pdf", "broken.pdf", "empty.pdf", "c.pdf"))
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	wantTOC := []TOCEntry{
		{Level: 1, Label: "1. a", Page: 1},
		{Level: 1, Label: "4. c", Page: 3},
	}
	if !reflect.DeepEqual(report.TOC, wantTOC) {
		t.Errorf("TOC = %+v, want %+v", report.TOC, wantTOC)
	}
	if report.Pages != 3 {
		t.Errorf("Pages = %d, want 3", report.Pages)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("Skipped = %+v, want broken.pdf and empty.pdf", report.Skipped)
	}
	for _, s := range report.Skipped {
		if !errors.Is(s.Err, ErrMergeOpen) {
			t.Errorf("Skipped %s error = %v, want ErrMergeOpen", s.Path, s.Err)
		}
	}
	if want := []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "c.pdf")}; !reflect.DeepEqual(backend.lastInputs(), want) {
		t.Errorf("merged inputs = %v, want %v", backend.lastInputs(), want)
	}
}

func TestMerge_TOCPagesStrictlyIncrease(t *testing.T) {
	t.Parallel()

	backend := newMockBackend(map[string]int{"1.pdf": 4, "2.pdf": 1, "3.pdf": 7, "4.pdf": 2})
	m, dir := newTestMerger(t, backend)

	report, err := m.Merge(context.Background(), localPlan(dir, "1.pdf", "2.pdf", "3.pdf", "4.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	prev := 0
	for _, e := range report.TOC {
		if e.Page <= prev || e.Page > report.Pages {
			t.Errorf("TOC page %d out of order or beyond %d pages", e.Page, report.Pages)
		}
		prev = e.Page
	}
}

// ---------------------------------------------------------------------------
// TestMerge_Errors - Nothing written on failure
// ---------------------------------------------------------------------------

func TestMerge_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		setup   func(b *mockBackend)
		wantErr error
	}{
		{name: "empty plan", wantErr: ErrNoPDFs},
		{name: "nothing readable", entries: []string{"x.pdf", "y.pdf"}, wantErr: ErrNoValidContent},
		{
			name:    "merge fails",
			entries: []string{"a.pdf"},
			setup:   func(b *mockBackend) { b.mergeErr = errors.New("disk full") },
			wantErr: ErrMergeWrite,
		},
		{
			name:    "bookmarks fail",
			entries: []string{"a.pdf"},
			setup:   func(b *mockBackend) { b.bookmarkErr = errors.New("bad outline") },
			wantErr: ErrMergeWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := newMockBackend(map[string]int{"a.pdf": 1})
			if tt.setup != nil {
				tt.setup(backend)
			}
			m, dir := newTestMerger(t, backend)

			report, err := m.Merge(context.Background(), localPlan(dir, tt.entries...))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Merge() error = %v, want %v", err, tt.wantErr)
			}
			if report != nil {
				t.Errorf("Merge() report = %+v, want nil", report)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("work dir should stay empty, found %d entries", len(entries))
			}
		})
	}
}

func TestMerge_ContextCancelled(t *testing.T) {
	t.Parallel()

	m, dir := newTestMerger(t, newMockBackend(map[string]int{"a.pdf": 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Merge(ctx, localPlan(dir, "a.pdf")); !errors.Is(err, context.Canceled) {
		t.Errorf("Merge() error = %v, want context.Canceled", err)
	}
}

func TestMerge_OverwritesExistingOutput(t *testing.T) {
	t.Parallel()

	m, dir := newTestMerger(t, newMockBackend(map[string]int{"a.pdf": 1}))
	out := filepath.Join(dir, DefaultMergedName)
	if err := os.WriteFile(out, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Merge(context.Background(), localPlan(dir, "a.pdf")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "stale" {
		t.Error("merged output was not replaced")
	}
}

// ---------------------------------------------------------------------------
// TestRecoverPDFPanic - Parser panics surface as errors
// ---------------------------------------------------------------------------

func TestRecoverPDFPanic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fn      func() error
		wantErr string
	}{
		{
			name:    "panic becomes error",
			fn:      func() error { panic("index out of range") },
			wantErr: "pdfcpu: index out of range",
		},
		{
			name:    "returned error kept",
			fn:      func() error { return errors.New("bad xref") },
			wantErr: "bad xref",
		},
		{
			name: "no error",
			fn:   func() error { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			call := func() (err error) {
				defer recoverPDFPanic(&err)
				return tt.fn()
			}

			err := call()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("error = %v, want nil", err)
			case tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr):
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
