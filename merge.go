package web2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// pdfBackend abstracts PDF reading and writing to allow testing without
// real documents.
type pdfBackend interface {
	PageCount(path string) (int, error)
	Merge(inputs []string, output string) error
	SetBookmarks(input, output string, toc []TOCEntry) error
}

var errNoPages = errors.New("document has no pages")

// Merger concatenates planned documents into one bookmarked PDF.
type Merger struct {
	backend    pdfBackend
	outputPath string
	logger     *slog.Logger
}

func newMerger(s settings) *Merger {
	b := s.backend
	if b == nil {
		b = newPDFCPUBackend()
	}
	return &Merger{
		backend:    b,
		outputPath: filepath.Join(s.workDir, s.mergedName),
		logger:     s.logger,
	}
}

// OutputPath returns where Merge writes.
func (m *Merger) OutputPath() string { return m.outputPath }

// Merge writes every openable plan entry, in order, to the output path
// with one top-level bookmark per document. Entries that fail to open are
// skipped but keep their ordinal, so "3. x" is always the third planned
// file. Nothing is written when the plan is empty (ErrNoPDFs) or no entry
// has pages (ErrNoValidContent).
func (m *Merger) Merge(ctx context.Context, plan MergePlan) (*MergeReport, error) {
	if plan.Len() == 0 {
		return nil, ErrNoPDFs
	}

	report := &MergeReport{OutputPath: m.outputPath}
	for i, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pages, err := m.backend.PageCount(entry.Path)
		if err == nil && pages <= 0 {
			err = errNoPages
		}
		if err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMergeOpen, entry.Path, err)
			m.logger.Warn("skipping unreadable PDF", "path", entry.Path, "error", err)
			report.Skipped = append(report.Skipped, SkippedSource{Path: entry.Path, Err: err})
			continue
		}

		report.TOC = append(report.TOC, TOCEntry{
			Level: 1,
			Label: fmt.Sprintf("%d. %s", i+1, fileutil.Stem(entry.Path)),
			Page:  report.Pages + 1,
		})
		report.Merged = append(report.Merged, entry.Path)
		report.Pages += pages
		m.logger.Debug("queued PDF", "path", entry.Path, "pages", pages, "source", entry.Source)
	}

	if report.Pages == 0 {
		return nil, ErrNoValidContent
	}

	if err := m.write(report); err != nil {
		return nil, err
	}

	m.logger.Info("merged PDFs", "path", m.outputPath, "documents", len(report.Merged), "pages", report.Pages)
	return report, nil
}

// write merges into a temp file, adds bookmarks into a second temp file
// next to the output, then renames it over the output.
func (m *Merger) write(report *MergeReport) error {
	mergedPath, cleanupMerged, err := fileutil.TempPath("", "pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}
	defer cleanupMerged()

	if err := m.backend.Merge(report.Merged, mergedPath); err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}

	partPath, cleanupPart, err := fileutil.TempPath(filepath.Dir(m.outputPath), "part")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}
	defer cleanupPart()

	if err := m.backend.SetBookmarks(mergedPath, partPath, report.TOC); err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}

	if err := os.Chmod(partPath, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}
	if err := os.Rename(partPath, m.outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrMergeWrite, err)
	}
	return nil
}
