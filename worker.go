package web2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// Output file permissions.
const (
	filePermissions = 0o644
)

// Worker converts one URL into one PDF using a dedicated browser.
type Worker struct {
	launcher browserLauncher
	workDir  string

	navigationTimeout time.Duration
	lazyLoadTimeout   time.Duration
	exportTimeout     time.Duration
	scroll            scrollOptions
	page              PageSettings

	logger *slog.Logger
}

func newWorker(s settings) *Worker {
	l := s.launcher
	if l == nil {
		l = newRodLauncher(s)
	}
	return &Worker{
		launcher:          l,
		workDir:           s.workDir,
		navigationTimeout: s.navigationTimeout,
		lazyLoadTimeout:   s.lazyLoadTimeout,
		exportTimeout:     s.exportTimeout,
		scroll:            s.scroll,
		page:              s.page,
		logger:            s.logger,
	}
}

// Convert runs launch, navigate, lazy-load expansion, title capture and
// export for task. Failures are reported in the result, never returned.
// The browser is torn down before Convert returns, whatever happened.
func (w *Worker) Convert(ctx context.Context, task ConversionTask) ConversionResult {
	start := time.Now()
	logger := w.logger.With("url", task.URL)
	logger.Info("processing URL")

	path, title, err := w.convert(ctx, task, logger)

	return ConversionResult{
		Index:      task.Index,
		URL:        task.URL,
		OutputPath: path,
		Title:      title,
		Err:        err,
		Duration:   time.Since(start),
	}
}

func (w *Worker) convert(ctx context.Context, task ConversionTask, logger *slog.Logger) (path, title string, err error) {
	if strings.TrimSpace(task.URL) == "" {
		return "", "", ErrEmptyURL
	}

	session, err := w.launcher.Launch(ctx)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("browser teardown failed", "error", closeErr)
		}
	}()

	if err := session.Navigate(ctx, task.URL, w.navigationTimeout); err != nil {
		return "", "", err
	}

	if err := session.ExpandLazyContent(ctx, w.scroll, w.lazyLoadTimeout); err != nil {
		return "", "", err
	}

	title, err = w.captureTitle(ctx, session, logger)
	if err != nil {
		return "", "", err
	}

	path = task.OutputPath
	if path == "" {
		path = filepath.Join(w.workDir, OutputFileName(title))
	}

	if err := w.export(ctx, session, path); err != nil {
		return "", title, err
	}

	return path, title, nil
}

// captureTitle reads document.title, falling back to the rendered DOM.
func (w *Worker) captureTitle(ctx context.Context, session browserSession, logger *slog.Logger) (string, error) {
	title, err := session.Title(ctx)
	if err != nil {
		return "", err
	}
	if title != "" {
		return title, nil
	}

	html, err := session.HTML(ctx)
	if err != nil {
		logger.Debug("reading DOM for title fallback failed", "error", err)
		return "", nil
	}
	return titleFromHTML(html), nil
}

// export writes the PDF next to path and renames it into place, so a
// failed export never leaves a truncated .pdf behind.
func (w *Worker) export(ctx context.Context, session browserSession, path string) error {
	partPath, cleanup, err := fileutil.TempPath(filepath.Dir(path), "part")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	defer cleanup()

	f, err := os.OpenFile(partPath, os.O_WRONLY|os.O_TRUNC, filePermissions) // #nosec G304 -- path reserved above
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	if err := session.ExportPDF(ctx, f, w.page, w.exportTimeout); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	// CreateTemp reserves files as 0600.
	if err := os.Chmod(partPath, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	if err := os.Rename(partPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}
