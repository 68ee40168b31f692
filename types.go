package web2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Page defaults.
const (
	DefaultMarginPx  = 30
	MaxMarginPx      = 300
	cssPixelsPerInch = 96
)

// paperInches maps page sizes to width and height in inches.
var paperInches = map[string][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures exported PDF pages.
type PageSettings struct {
	Size            string  // "a4", "letter", "legal"
	MarginPx        float64 // CSS pixels, applied to all sides
	PrintBackground bool
}

// DefaultPageSettings returns A4 with 30px margins and backgrounds printed.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		Size:            PageSizeA4,
		MarginPx:        DefaultMarginPx,
		PrintBackground: true,
	}
}

// Validate checks that page settings are usable.
// Does not mutate - uses case-insensitive comparison.
func (p PageSettings) Validate() error {
	if _, ok := paperInches[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if p.MarginPx < 0 || p.MarginPx > MaxMarginPx {
		return fmt.Errorf("%w: %.1fpx (must be between 0 and %d)", ErrInvalidMargin, p.MarginPx, MaxMarginPx)
	}
	return nil
}

// dimensions returns paper width, height and margin in inches.
func (p PageSettings) dimensions() (width, height, margin float64) {
	size, ok := paperInches[strings.ToLower(p.Size)]
	if !ok {
		size = paperInches[PageSizeA4]
	}
	return size[0], size[1], p.MarginPx / cssPixelsPerInch
}

// ConversionTask is one URL to convert. Index is its 0-based position in
// the input list and identifies the task across the batch.
type ConversionTask struct {
	Index      int
	URL        string
	OutputPath string // empty = derived from the page title inside the work dir
}

// NewTasks builds tasks from urls, dropping blank entries.
// Indices are assigned over the kept entries, in input order.
func NewTasks(urls []string) []ConversionTask {
	tasks := make([]ConversionTask, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		tasks = append(tasks, ConversionTask{Index: len(tasks), URL: u})
	}
	return tasks
}

// ConversionResult is the outcome of one task, produced exactly once.
type ConversionResult struct {
	Index      int
	URL        string
	OutputPath string
	Title      string
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the task produced a PDF.
func (r ConversionResult) Succeeded() bool {
	return r.Err == nil
}

// PlanSource tells where a merge plan entry came from.
type PlanSource int

const (
	SourceConverted PlanSource = iota
	SourceLocal
)

func (s PlanSource) String() string {
	switch s {
	case SourceConverted:
		return "converted"
	case SourceLocal:
		return "local"
	}
	return fmt.Sprintf("PlanSource(%d)", int(s))
}

// PlanEntry is one source document of a merge.
type PlanEntry struct {
	Path   string
	Source PlanSource
}

// MergePlan is the ordered list of documents to merge: converted outputs
// in input order, then local PDFs sorted by name. Paths are unique.
type MergePlan struct {
	Entries []PlanEntry
}

// Len returns the number of planned documents.
func (p MergePlan) Len() int { return len(p.Entries) }

// Paths returns the planned paths in merge order.
func (p MergePlan) Paths() []string {
	paths := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		paths[i] = e.Path
	}
	return paths
}

// TOCEntry is one bookmark of the merged document.
type TOCEntry struct {
	Level int    // always 1
	Label string // "{ordinal}. {file name without extension}"
	Page  int    // 1-based first page in the merged output
}

// SkippedSource records a planned document that could not be opened.
type SkippedSource struct {
	Path string
	Err  error
}

// MergeReport describes a written merged document.
type MergeReport struct {
	OutputPath string
	Pages      int
	TOC        []TOCEntry
	Merged     []string
	Skipped    []SkippedSource
}

// RunReport aggregates a pipeline run.
type RunReport struct {
	Results []ConversionResult // input order
	Merge   *MergeReport       // nil when merging was skipped or failed
}

// Succeeded returns the number of successful conversions.
func (r *RunReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed conversions.
func (r *RunReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}
