package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/a11yscan/internal/axe"
)

// DefaultSettleDelay is how long to wait after DOMContentLoaded before
// auditing, so that late-rendering content is present.
const DefaultSettleDelay = 800 * time.Millisecond

// errNoPage is returned when a step needs a page but the run has none.
var errNoPage = errors.New("no browser page attached to scan")

// NavigateStep loads the target URL and waits for the page to settle.
type NavigateStep struct {
	settleDelay time.Duration
	logger      *slog.Logger
}

// NewNavigateStep creates a navigate step that waits settleDelay after load.
// A zero or negative delay disables the wait.
func NewNavigateStep(settleDelay time.Duration, logger *slog.Logger) *NavigateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigateStep{settleDelay: settleDelay, logger: logger}
}

// Name returns the step name.
func (s *NavigateStep) Name() string {
	return "navigate"
}

// Do navigates run.Page to run.URL and then sleeps for the settle delay.
func (s *NavigateStep) Do(ctx context.Context, run *Run) error {
	if run.Page == nil {
		return errNoPage
	}

	start := time.Now()
	if err := run.Page.Navigate(ctx, run.URL); err != nil {
		return err
	}
	s.logger.Debug("page loaded", "url", run.URL, "elapsed", time.Since(start))

	return sleep(ctx, s.settleDelay)
}

// InjectStep loads the rule engine bundle from disk and injects it.
type InjectStep struct {
	scriptPath string
}

// NewInjectStep creates an inject step reading the bundle at scriptPath.
func NewInjectStep(scriptPath string) *InjectStep {
	return &InjectStep{scriptPath: scriptPath}
}

// Name returns the step name.
func (s *InjectStep) Name() string {
	return "inject"
}

// Do reads the bundle and adds it to the page.
func (s *InjectStep) Do(ctx context.Context, run *Run) error {
	if run.Page == nil {
		return errNoPage
	}

	source, err := axe.LoadScript(s.scriptPath)
	if err != nil {
		return err
	}
	return run.Page.AddScript(ctx, source)
}

// AuditStep runs the rule engine against the whole document.
type AuditStep struct{}

// NewAuditStep creates an audit step.
func NewAuditStep() *AuditStep {
	return &AuditStep{}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do evaluates the audit expression and stores its output in the run.
func (s *AuditStep) Do(ctx context.Context, run *Run) error {
	if run.Page == nil {
		return errNoPage
	}

	out, err := run.Page.Evaluate(ctx, axe.AuditExpression)
	if err != nil {
		return fmt.Errorf("rule engine audit failed: %w", err)
	}
	run.AuditOutput = out
	return nil
}

// ShapeStep converts the audit output into model violations.
type ShapeStep struct{}

// NewShapeStep creates a shape step.
func NewShapeStep() *ShapeStep {
	return &ShapeStep{}
}

// Name returns the step name.
func (s *ShapeStep) Name() string {
	return "shape"
}

// Do decodes run.AuditOutput and stores the shaped violations.
func (s *ShapeStep) Do(_ context.Context, run *Run) error {
	raw, err := axe.Decode([]byte(run.AuditOutput))
	if err != nil {
		return err
	}
	run.Violations = axe.Shape(raw)
	return nil
}

// ScanConfig holds the settings of the default scan pipeline.
type ScanConfig struct {
	SettleDelay time.Duration
	ScriptPath  string
}

// NewScanPipeline builds the navigate → inject → audit → shape pipeline.
func NewScanPipeline(cfg ScanConfig, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewNavigateStep(cfg.SettleDelay, p.logger),
		NewInjectStep(cfg.ScriptPath),
		NewAuditStep(),
		NewShapeStep(),
	)
	return p
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("settle delay interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
