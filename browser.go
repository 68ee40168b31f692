package web2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-web2pdf/internal/process"
)

// browserLauncher starts one isolated browser per task.
type browserLauncher interface {
	Launch(ctx context.Context) (browserSession, error)
}

// browserSession is a launched browser with one open page.
// Close must be safe to call after any failed step.
type browserSession interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	ExpandLazyContent(ctx context.Context, opts scrollOptions, timeout time.Duration) error
	Title(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	ExportPDF(ctx context.Context, w io.Writer, page PageSettings, timeout time.Duration) error
	Close() error
}

// Compile-time interface checks
var (
	_ browserLauncher = (*rodLauncher)(nil)
	_ browserSession  = (*rodSession)(nil)
)

const (
	// requestIdleWindow is how long at most maxIdleInflight requests may
	// be open before a page counts as loaded.
	requestIdleWindow = 500 * time.Millisecond

	// exitGrace is how long a closed browser gets to exit before it is killed.
	exitGrace = 2 * time.Second
)

// idleExcludedTypes never settle, so they are not tracked for idleness.
var idleExcludedTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeEventSource,
}

// rodLauncher implements browserLauncher using go-rod.
// Rod downloads Chromium on first run if no binary is found.
type rodLauncher struct {
	bin       string
	headless  bool
	noSandbox bool
	logger    *slog.Logger
}

func newRodLauncher(s settings) *rodLauncher {
	return &rodLauncher{
		bin:       s.browserBin,
		headless:  s.headless,
		noSandbox: s.noSandbox,
		logger:    s.logger,
	}
}

// Launch starts a browser process and opens a blank page.
// The launcher is bound to ctx: cancelling it kills the process.
func (l *rodLauncher) Launch(ctx context.Context) (browserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ln := launcher.New().Context(ctx).Headless(l.headless)

	// Explicit binary first, then the pre-installed browser of Docker images.
	if l.bin != "" {
		ln = ln.Bin(l.bin)
	} else if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		ln = ln.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if l.noSandbox || os.Getenv("CI") == "true" {
		ln = ln.NoSandbox(true)
	}

	u, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	s := &rodSession{launcher: ln, pid: ln.PID(), logger: l.logger}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	s.page = page

	l.logger.Debug("browser launched", "pid", s.pid, "headless", l.headless)
	return s, nil
}

// rodSession owns one browser process and its page.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	pid      int
	logger   *slog.Logger
}

// Navigate loads url and waits for the load event and for the network to
// settle to at most maxIdleInflight open requests.
func (s *rodSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	idle := newNetworkIdle(maxIdleInflight, requestIdleWindow)
	stopWatch := watchNetwork(p, idle)
	defer stopWatch()

	if err := p.Navigate(url); err != nil {
		return classifyNavigation(ctx, p, err)
	}
	idle.arm()

	select {
	case <-idle.Done():
	case <-p.GetContext().Done():
		return classifyNavigation(ctx, p, p.GetContext().Err())
	}

	if err := p.WaitLoad(); err != nil {
		return classifyNavigation(ctx, p, err)
	}
	return nil
}

// classifyNavigation maps a navigation failure to a sentinel error.
// Cancellation of the parent context is returned as is.
func classifyNavigation(ctx context.Context, p *rod.Page, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(p.GetContext().Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// ExpandLazyContent runs the scroll loop inside the page.
func (s *rodSession) ExpandLazyContent(ctx context.Context, opts scrollOptions, timeout time.Duration) error {
	p := s.page.Context(ctx)
	if timeout > 0 {
		p = p.Timeout(timeout + scrollGrace)
		defer p.CancelTimeout()
	}

	_, err := p.Evaluate(rod.Eval(lazyLoadJS, opts.step, opts.interval.Milliseconds(), timeout.Milliseconds()).ByPromise())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrLazyLoad, err)
	}
	return nil
}

// Title returns document.title, trimmed.
func (s *rodSession) Title(ctx context.Context) (string, error) {
	obj, err := s.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitle, err)
	}
	return strings.TrimSpace(obj.Value.Str()), nil
}

// HTML returns the rendered DOM.
func (s *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitle, err)
	}
	return html, nil
}

// ExportPDF prints the whole page and streams the PDF to w.
func (s *rodSession) ExportPDF(ctx context.Context, w io.Writer, page PageSettings, timeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	reader, err := p.PDF(buildPDFOptions(page))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer func() { _ = reader.Close() }()

	if _, err := io.Copy(w, reader); err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return nil
}

// buildPDFOptions constructs proto.PagePrintToPDF from page settings.
func buildPDFOptions(page PageSettings) *proto.PagePrintToPDF {
	width, height, margin := page.dimensions()
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: page.PrintBackground,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// Close tears the session down: page, browser, then the process if it
// outlived the graceful close. Every step runs; errors are joined.
func (s *rodSession) Close() error {
	var errs []error

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing page: %w", err))
		}
		s.page = nil
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
		s.browser = nil
	}

	if s.launcher != nil {
		if !waitExit(s.pid, exitGrace) {
			s.logger.Debug("browser still alive after close, killing", "pid", s.pid)
			s.launcher.Kill()
			process.KillProcessGroup(s.pid)
		}
		s.launcher = nil
	}

	return errors.Join(errs...)
}

// waitExit polls until pid is gone or grace elapses. Reports whether the
// process exited.
func waitExit(pid int, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for process.Alive(pid) {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
	return true
}
