package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/a11yscan/internal/config"
	"github.com/nao1215/a11yscan/internal/log"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/report"
	"github.com/nao1215/a11yscan/internal/server"
	"github.com/spf13/cobra"
)

// errScanFailed is returned when the scan itself failed; the report has
// already been written by then.
var errScanFailed = errors.New("scan failed")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan one page for accessibility violations",
		Long: `Scan runs a single accessibility audit and prints the report.

A URL without http:// or https:// is scanned over https. The exit status is
non-zero when the page could not be loaded or audited; violations alone do
not fail the command.

Examples:
  # Human-readable report
  a11yscan scan example.com

  # JSON report, the same body the web API returns
  a11yscan scan --json https://example.com/login

  # Markdown report of serious and critical issues, written to a file
  a11yscan scan -m --min-impact serious -o reports/home.md example.com

  # Only violations mentioning "contrast"
  a11yscan scan --search contrast example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("min-impact", "",
		"Hide violations below this impact (minor, moderate, serious, critical)")
	cmd.Flags().StringP("search", "s", "",
		"Only report violations whose id, help, description or tags contain this text")
	cmd.Flags().Bool("json-logs", false, "Write diagnostic logs to stderr as JSON")

	addBrowserFlags(cmd.Flags())

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	if cfg.JSONLogs {
		logger = log.NewSecureJSONLogger(os.Stderr, cfg.Verbose)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return runScan(ctx, cfg, newScanner(cfg, logger), args[0], cmd.OutOrStdout())
}

// applyReportFlags overrides cfg with the report and logging flags that were set.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if flags.Changed("json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return err
		}
	}
	if flags.Changed("markdown") {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("min-impact") {
		if cfg.MinImpact, err = flags.GetString("min-impact"); err != nil {
			return err
		}
	}
	if flags.Changed("search") {
		if cfg.Search, err = flags.GetString("search"); err != nil {
			return err
		}
	}
	if flags.Changed("json-logs") {
		if cfg.JSONLogs, err = flags.GetBool("json-logs"); err != nil {
			return err
		}
	}
	return nil
}

// runScan scans rawURL, writes the filtered report, and returns errScanFailed
// when the scan did not succeed.
func runScan(ctx context.Context, cfg *config.Config, scanner server.Scanner, rawURL string, stdout io.Writer) error {
	resp := scanner.Scan(ctx, rawURL)

	if resp.OK {
		filter := cfg.Filter()
		if !filter.IsZero() {
			resp.Violations = filter.Apply(resp.Violations)
		}
	}

	if err := outputReport(cfg, &resp, stdout); err != nil {
		return err
	}

	if !resp.OK {
		return fmt.Errorf("%w: %s", errScanFailed, resp.Error)
	}
	return nil
}

// outputReport renders resp to stdout, or to cfg.ReportFile with a one-line
// summary on stdout.
func outputReport(cfg *config.Config, resp *model.ScanResponse, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		if _, err := newReportWriter(cfg, stdout).Write(resp); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := report.NewMultiWriter(newReportWriter(cfg, f), report.NewSummaryWriter(stdout))
	if _, err := w.Write(resp); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// newReportWriter returns the writer for the report format selected in cfg.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
