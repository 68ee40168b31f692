package web2pdf

// Notes:
// - mockLauncher/mockSession stand in for go-rod: each URL maps to a
//   mockPage describing how every step of the session behaves.
// - mockBackend stands in for pdfcpu: page counts are keyed by file base
//   name, so a file missing from the map is "unreadable".
// - withLauncher/withBackend are the internal test options used to inject
//   them into New.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Internal Test Options
// ---------------------------------------------------------------------------

func withLauncher(l browserLauncher) Option {
	return func(s *settings) {
		s.launcher = l
	}
}

func withBackend(b pdfBackend) Option {
	return func(s *settings) {
		s.backend = b
	}
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockPage scripts one URL.
type mockPage struct {
	title     string
	html      string
	pdf       string
	delay     time.Duration // applied during navigation
	release   chan struct{} // if set, navigation blocks until closed
	navErr    error
	lazyErr   error
	titleErr  error
	exportErr error
	panicMsg  string
}

type mockLauncher struct {
	mu        sync.Mutex
	pages     map[string]mockPage
	launchErr error
	closeErr  error
	launched  int
	closed    int
}

func newMockLauncher(pages map[string]mockPage) *mockLauncher {
	return &mockLauncher{pages: pages}
}

func (l *mockLauncher) Launch(ctx context.Context) (browserSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.launched++
	return &mockSession{launcher: l}, nil
}

func (l *mockLauncher) counts() (launched, closed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched, l.closed
}

type mockSession struct {
	launcher *mockLauncher
	page     mockPage
	url      string
}

func (s *mockSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.launcher.mu.Lock()
	s.page = s.launcher.pages[url]
	s.launcher.mu.Unlock()
	s.url = url

	if s.page.panicMsg != "" {
		panic(s.page.panicMsg)
	}
	if s.page.release != nil {
		select {
		case <-s.page.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.page.delay > 0 {
		select {
		case <-time.After(s.page.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.page.navErr
}

func (s *mockSession) ExpandLazyContent(ctx context.Context, opts scrollOptions, timeout time.Duration) error {
	return s.page.lazyErr
}

func (s *mockSession) Title(ctx context.Context) (string, error) {
	if s.page.titleErr != nil {
		return "", s.page.titleErr
	}
	return s.page.title, nil
}

func (s *mockSession) HTML(ctx context.Context) (string, error) {
	return s.page.html, nil
}

func (s *mockSession) ExportPDF(ctx context.Context, w io.Writer, page PageSettings, timeout time.Duration) error {
	if s.page.exportErr != nil {
		// Partial output before failing.
		_, _ = io.WriteString(w, "%PDF-1.4 partial")
		return s.page.exportErr
	}
	content := s.page.pdf
	if content == "" {
		content = "%PDF-1.4 mock " + s.url
	}
	_, err := io.WriteString(w, content)
	return err
}

func (s *mockSession) Close() error {
	s.launcher.mu.Lock()
	defer s.launcher.mu.Unlock()
	s.launcher.closed++
	return s.launcher.closeErr
}

type mockBackend struct {
	mu           sync.Mutex
	pages        map[string]int // by base name
	mergeErr     error
	bookmarkErr  error
	mergedInputs [][]string
	tocs         [][]TOCEntry
}

func newMockBackend(pages map[string]int) *mockBackend {
	return &mockBackend{pages: pages}
}

func (b *mockBackend) PageCount(path string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.pages[filepath.Base(path)]
	if !ok {
		return 0, errors.New("not a PDF")
	}
	return n, nil
}

func (b *mockBackend) Merge(inputs []string, output string) error {
	b.mu.Lock()
	b.mergedInputs = append(b.mergedInputs, append([]string(nil), inputs...))
	b.mu.Unlock()
	if b.mergeErr != nil {
		return b.mergeErr
	}
	return os.WriteFile(output, []byte("%PDF-1.4 merged"), 0o600)
}

func (b *mockBackend) SetBookmarks(input, output string, toc []TOCEntry) error {
	b.mu.Lock()
	b.tocs = append(b.tocs, append([]TOCEntry(nil), toc...))
	b.mu.Unlock()
	if b.bookmarkErr != nil {
		return b.bookmarkErr
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o600)
}

func (b *mockBackend) lastInputs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.mergedInputs) == 0 {
		return nil
	}
	return b.mergedInputs[len(b.mergedInputs)-1]
}

// converterFunc adapts a function to taskConverter.
type converterFunc func(ctx context.Context, task ConversionTask) ConversionResult

func (f converterFunc) Convert(ctx context.Context, task ConversionTask) ConversionResult {
	return f(ctx, task)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestLogger returns a debug-level text logger writing to buf.
func newTestLogger(buf io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeFiles creates empty files named names in dir.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}
