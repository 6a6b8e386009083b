package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/a11yscan/internal/axe"
	"github.com/nao1215/a11yscan/internal/browser"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/pipeline"
)

// Scanner audits single pages. It holds configuration only, so one Scanner
// may serve any number of concurrent Scan calls.
type Scanner struct {
	launcher    browser.Launcher
	settleDelay time.Duration
	scriptPath  string
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSettleDelay sets the wait between DOMContentLoaded and the audit.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Scanner) {
		s.settleDelay = d
	}
}

// WithScriptPath sets the location of the axe-core bundle.
func WithScriptPath(path string) Option {
	return func(s *Scanner) {
		s.scriptPath = path
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

// NewScanner creates a Scanner that acquires browsers from launcher.
func NewScanner(launcher browser.Launcher, opts ...Option) *Scanner {
	s := &Scanner{
		launcher:    launcher,
		settleDelay: pipeline.DefaultSettleDelay,
		scriptPath:  axe.DefaultScriptPath,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Scan audits the page at rawURL and always returns a response satisfying
// the ok/error invariant of model.ScanResponse.
func (s *Scanner) Scan(ctx context.Context, rawURL string) (resp model.ScanResponse) {
	url := NormalizeURL(rawURL)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scan panicked", "url", url, "panic", r)
			resp = model.NewErrorResponse(url, s.now(), fmt.Sprintf("internal error: %v", r))
		}
	}()

	violations, err := s.run(ctx, url)
	if err != nil {
		s.logger.Warn("scan failed", "url", url, "elapsed", time.Since(start), "error", err)
		return model.NewErrorResponse(url, s.now(), err.Error())
	}

	s.logger.Info("scan completed",
		"url", url,
		"violations", len(violations),
		"elapsed", time.Since(start),
	)
	return model.NewSuccessResponse(url, s.now(), violations)
}

// run acquires a browser session, executes the pipeline and releases the
// session before returning, whatever the outcome.
func (s *Scanner) run(ctx context.Context, url string) ([]model.Violation, error) {
	session, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("failed to release browser", "url", url, "error", err)
		}
	}()

	page, err := session.NewPage(ctx)
	if err != nil {
		return nil, err
	}

	run := &pipeline.Run{URL: url, Page: page}
	p := pipeline.NewScanPipeline(
		pipeline.ScanConfig{SettleDelay: s.settleDelay, ScriptPath: s.scriptPath},
		pipeline.WithLogger(s.logger),
	)
	s.logger.Debug("running scan pipeline", "url", url, "steps", p.StepNames())
	if err := p.Execute(ctx, run); err != nil {
		return nil, err
	}
	return run.Violations, nil
}
