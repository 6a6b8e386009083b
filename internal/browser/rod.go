package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodLauncher launches headless Chromium through go-rod.
type RodLauncher struct {
	// bin is the browser executable. When empty, rod looks up an installed
	// browser and downloads one if none is found.
	bin string

	// navigationTimeout bounds Page.Navigate.
	navigationTimeout time.Duration

	// operationTimeout bounds Page.AddScript and Page.Evaluate.
	operationTimeout time.Duration

	logger *slog.Logger
}

// RodOption configures a RodLauncher.
type RodOption func(*RodLauncher)

// WithBin sets the browser executable path.
func WithBin(path string) RodOption {
	return func(l *RodLauncher) {
		l.bin = path
	}
}

// WithNavigationTimeout sets the per-navigation timeout.
func WithNavigationTimeout(d time.Duration) RodOption {
	return func(l *RodLauncher) {
		if d > 0 {
			l.navigationTimeout = d
		}
	}
}

// WithOperationTimeout sets the timeout for script injection and evaluation.
func WithOperationTimeout(d time.Duration) RodOption {
	return func(l *RodLauncher) {
		if d > 0 {
			l.operationTimeout = d
		}
	}
}

// WithLogger sets the logger used for browser lifecycle events.
func WithLogger(logger *slog.Logger) RodOption {
	return func(l *RodLauncher) {
		l.logger = logger
	}
}

// NewRodLauncher creates a RodLauncher with default timeouts.
func NewRodLauncher(opts ...RodOption) *RodLauncher {
	l := &RodLauncher{
		navigationTimeout: DefaultNavigationTimeout,
		operationTimeout:  DefaultOperationTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// Launch starts a headless browser with sandboxing disabled, connects to it
// and opens an incognito context that ignores certificate errors.
func (l *RodLauncher) Launch(ctx context.Context) (Session, error) {
	ln := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("ignore-certificate-errors")
	if l.bin != "" {
		ln = ln.Bin(l.bin)
	}

	controlURL, err := ln.Launch()
	if err != nil {
		if ln.PID() != 0 {
			ln.Kill()
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := &rodSession{
		launcher:          ln,
		navigationTimeout: l.navigationTimeout,
		operationTimeout:  l.operationTimeout,
		logger:            l.logger,
	}

	s.root = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.root.Connect(); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.browser, err = s.root.Incognito()
	if err != nil {
		_ = s.Close() //nolint:errcheck // Launch error takes precedence
		return nil, fmt.Errorf("failed to create browsing context: %w", err)
	}

	if err := s.browser.IgnoreCertErrors(true); err != nil {
		_ = s.Close() //nolint:errcheck // Launch error takes precedence
		return nil, fmt.Errorf("failed to ignore certificate errors: %w", err)
	}

	l.logger.Debug("browser launched", "pid", ln.PID())
	return s, nil
}

// rodSession is a Session backed by one Chromium process.
type rodSession struct {
	launcher *launcher.Launcher

	// root is the connection to the browser process.
	root *rod.Browser

	// browser is the incognito context pages are opened in.
	browser *rod.Browser

	navigationTimeout time.Duration
	operationTimeout  time.Duration
	logger            *slog.Logger

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// NewPage opens a blank page in the incognito context.
func (s *rodSession) NewPage(ctx context.Context) (Page, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	// Injected scripts must run even on pages with a strict CSP.
	if err := (proto.PageSetBypassCSP{Enabled: true}).Call(page); err != nil {
		return nil, fmt.Errorf("failed to bypass content security policy: %w", err)
	}

	return &rodPage{
		page:              page,
		navigationTimeout: s.navigationTimeout,
		operationTimeout:  s.operationTimeout,
	}, nil
}

// Close disposes the incognito context, closes the browser, kills the
// process and removes its profile directory.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []error
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close browsing context: %w", err))
			}
		}
		if err := s.root.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		s.shutdown()

		s.closeErr = errors.Join(errs...)
		s.logger.Debug("browser closed", "error", s.closeErr)
	})
	return s.closeErr
}

// shutdown kills the browser process and waits for it to exit.
func (s *rodSession) shutdown() {
	s.launcher.Kill()
	s.launcher.Cleanup()
}

// rodPage is a Page backed by a rod page.
type rodPage struct {
	page              *rod.Page
	navigationTimeout time.Duration
	operationTimeout  time.Duration
}

// Navigate loads url, waiting for the DOMContentLoaded lifecycle event.
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx).Timeout(p.navigationTimeout)
	defer page.CancelTimeout()

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	wait()

	if err := page.GetContext().Err(); err != nil {
		return fmt.Errorf("timed out waiting for %s to load: %w", url, err)
	}
	return nil
}

// AddScript injects source as an inline script element.
func (p *rodPage) AddScript(ctx context.Context, source string) error {
	page := p.page.Context(ctx).Timeout(p.operationTimeout)
	defer page.CancelTimeout()

	if err := page.AddScriptTag("", source); err != nil {
		return fmt.Errorf("failed to inject script: %w", err)
	}
	return nil
}

// Evaluate runs expression and returns its resolved string value.
func (p *rodPage) Evaluate(ctx context.Context, expression string) (string, error) {
	page := p.page.Context(ctx).Timeout(p.operationTimeout)
	defer page.CancelTimeout()

	res, err := page.Eval(expression)
	if err != nil {
		return "", fmt.Errorf("failed to evaluate script: %w", err)
	}
	if res.Type != proto.RuntimeRemoteObjectTypeString {
		return "", fmt.Errorf("script returned %s, expected string", res.Type)
	}
	return res.Value.Str(), nil
}
