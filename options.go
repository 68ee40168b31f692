package web2pdf

import (
	"log/slog"
	"time"
)

// Defaults for a Pipeline built without options.
const (
	DefaultMergedName        = "merged_pdfs.pdf"
	DefaultNavigationTimeout = 60 * time.Second
	DefaultLazyLoadTimeout   = 2 * time.Minute
	DefaultExportTimeout     = 60 * time.Second
	DefaultScrollStep        = 100
	DefaultScrollInterval    = 100 * time.Millisecond
)

// Option configures a Pipeline.
type Option func(*settings)

type settings struct {
	workDir    string
	mergedName string

	browserBin string
	headless   bool
	noSandbox  bool

	navigationTimeout time.Duration
	lazyLoadTimeout   time.Duration
	exportTimeout     time.Duration

	scroll scrollOptions
	page   PageSettings

	logger *slog.Logger

	// Injected by tests.
	launcher browserLauncher
	backend  pdfBackend
}

func defaultSettings() settings {
	return settings{
		workDir:           ".",
		mergedName:        DefaultMergedName,
		navigationTimeout: DefaultNavigationTimeout,
		lazyLoadTimeout:   DefaultLazyLoadTimeout,
		exportTimeout:     DefaultExportTimeout,
		scroll:            scrollOptions{step: DefaultScrollStep, interval: DefaultScrollInterval},
		page:              DefaultPageSettings(),
		logger:            slog.New(slog.DiscardHandler),
	}
}

// WithWorkDir sets the directory holding converted PDFs, scanned local
// PDFs and the merged output.
func WithWorkDir(dir string) Option {
	return func(s *settings) {
		if dir != "" {
			s.workDir = dir
		}
	}
}

// WithMergedName sets the merged output file name inside the work dir.
func WithMergedName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.mergedName = name
		}
	}
}

// WithBrowserBin sets the browser executable. Empty keeps go-rod's lookup.
func WithBrowserBin(path string) Option {
	return func(s *settings) {
		s.browserBin = path
	}
}

// WithHeadless hides the browser window. The default is a visible window.
func WithHeadless(headless bool) Option {
	return func(s *settings) {
		s.headless = headless
	}
}

// WithNoSandbox disables the Chrome sandbox (containers, CI).
func WithNoSandbox(noSandbox bool) Option {
	return func(s *settings) {
		s.noSandbox = noSandbox
	}
}

// WithNavigationTimeout bounds page load plus network idle.
func WithNavigationTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.navigationTimeout = d
		}
	}
}

// WithLazyLoadTimeout bounds the scroll loop on pages that keep growing.
func WithLazyLoadTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.lazyLoadTimeout = d
		}
	}
}

// WithExportTimeout bounds PDF generation.
func WithExportTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.exportTimeout = d
		}
	}
}

// WithScroll sets the lazy-load scroll step (px) and tick interval.
func WithScroll(step int, interval time.Duration) Option {
	return func(s *settings) {
		if step > 0 {
			s.scroll.step = step
		}
		if interval > 0 {
			s.scroll.interval = interval
		}
	}
}

// WithPage sets the exported page settings.
func WithPage(page PageSettings) Option {
	return func(s *settings) {
		s.page = page
	}
}

// WithLogger sets the logger for status lines. Nil keeps the discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
