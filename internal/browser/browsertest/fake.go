// Package browsertest provides in-memory fakes of the browser interfaces for
// tests that must not start a real browser.
package browsertest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nao1215/a11yscan/internal/browser"
)

// Launcher is a fake browser.Launcher. Each Launch returns a new Session
// whose pages behave according to the Launcher's fields. It counts
// acquisitions and releases so tests can assert that nothing leaks.
type Launcher struct {
	// LaunchErr, when set, is returned by Launch.
	LaunchErr error

	// NewPageErr, when set, is returned by Session.NewPage.
	NewPageErr error

	// NavigateFunc handles Page.Navigate. Nil means success.
	NavigateFunc func(ctx context.Context, url string) error

	// AddScriptFunc handles Page.AddScript. Nil means success.
	AddScriptFunc func(ctx context.Context, source string) error

	// EvaluateFunc handles Page.Evaluate. Nil returns "[]".
	EvaluateFunc func(ctx context.Context, expression string) (string, error)

	launched atomic.Int64
	closed   atomic.Int64
}

// Launch implements browser.Launcher.
func (l *Launcher) Launch(_ context.Context) (browser.Session, error) {
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	l.launched.Add(1)
	return &Session{launcher: l}, nil
}

// Launched returns the number of sessions handed out.
func (l *Launcher) Launched() int {
	return int(l.launched.Load())
}

// Closed returns the number of sessions released.
func (l *Launcher) Closed() int {
	return int(l.closed.Load())
}

// Open returns the number of sessions launched but not yet closed.
func (l *Launcher) Open() int {
	return l.Launched() - l.Closed()
}

// Session is a fake browser.Session.
type Session struct {
	launcher *Launcher
	once     sync.Once
	closed   atomic.Bool
}

// NewPage implements browser.Session.
func (s *Session) NewPage(_ context.Context) (browser.Page, error) {
	if s.closed.Load() {
		return nil, browser.ErrSessionClosed
	}
	if s.launcher.NewPageErr != nil {
		return nil, s.launcher.NewPageErr
	}
	return &Page{launcher: s.launcher}, nil
}

// Close implements browser.Session.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		s.launcher.closed.Add(1)
	})
	return nil
}

// Page is a fake browser.Page.
type Page struct {
	launcher *Launcher
}

// Navigate implements browser.Page.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.launcher.NavigateFunc != nil {
		return p.launcher.NavigateFunc(ctx, url)
	}
	return ctx.Err()
}

// AddScript implements browser.Page.
func (p *Page) AddScript(ctx context.Context, source string) error {
	if p.launcher.AddScriptFunc != nil {
		return p.launcher.AddScriptFunc(ctx, source)
	}
	return nil
}

// Evaluate implements browser.Page.
func (p *Page) Evaluate(ctx context.Context, expression string) (string, error) {
	if p.launcher.EvaluateFunc != nil {
		return p.launcher.EvaluateFunc(ctx, expression)
	}
	return "[]", nil
}

// ErrUnresolvable mimics the navigation error Chromium reports for a host
// that does not resolve.
var ErrUnresolvable = errors.New("net::ERR_NAME_NOT_RESOLVED")
