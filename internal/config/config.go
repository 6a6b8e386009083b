package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/a11yscan/internal/axe"
	"github.com/nao1215/a11yscan/internal/browser"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/pipeline"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "a11yscan"

	// DefaultListenAddress is where the web app listens.
	DefaultListenAddress = ":8080"

	// DefaultNavigationTimeout bounds page navigation.
	DefaultNavigationTimeout = browser.DefaultNavigationTimeout

	// DefaultOperationTimeout bounds script injection and evaluation.
	DefaultOperationTimeout = browser.DefaultOperationTimeout

	// DefaultSettleDelay is the pause between DOMContentLoaded and the audit.
	DefaultSettleDelay = pipeline.DefaultSettleDelay

	// DefaultShutdownTimeout is how long in-flight requests get to finish
	// after SIGINT or SIGTERM.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultScriptPath is the rule-engine bundle location.
	DefaultScriptPath = axe.DefaultScriptPath
)

// Config holds all configuration options for a11yscan.
// It is populated from defaults, then the config file, then CLI flags, and
// passed down explicitly rather than kept in global state.
type Config struct {
	// ListenAddress is the "host:port" the web app binds to.
	ListenAddress string

	// NavigationTimeout bounds a single page navigation.
	NavigationTimeout time.Duration

	// OperationTimeout bounds script injection and evaluation.
	OperationTimeout time.Duration

	// SettleDelay is waited after DOMContentLoaded so late scripts can
	// finish rendering before the audit.
	SettleDelay time.Duration

	// ShutdownTimeout is the grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration

	// ScriptPath is the path of the axe-core bundle injected into pages.
	ScriptPath string

	// BrowserBin is the Chromium executable. Empty means auto-detect, and
	// download a browser when none is installed.
	BrowserBin string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// JSONLogs switches log output to JSON.
	JSONLogs bool

	// ConfigFilePath is the config file given with --config.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport selects the JSON report for the scan command.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report for the scan command.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// MinImpact hides violations below this impact in reports.
	// Empty keeps every violation.
	MinImpact string

	// Search keeps only violations whose id, help or description contain it.
	Search string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ListenAddress:     DefaultListenAddress,
		NavigationTimeout: DefaultNavigationTimeout,
		OperationTimeout:  DefaultOperationTimeout,
		SettleDelay:       DefaultSettleDelay,
		ShutdownTimeout:   DefaultShutdownTimeout,
		ScriptPath:        DefaultScriptPath,
	}
}

// XDGConfigDir returns the XDG config directory for a11yscan.
// On Linux: ~/.config/a11yscan
// On macOS: ~/Library/Application Support/a11yscan
// On Windows: %APPDATA%\a11yscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Filter returns the report filter described by MinImpact and Search.
// Validate must have accepted the config first.
func (c *Config) Filter() model.Filter {
	impact, _ := model.ParseImpact(c.MinImpact)
	return model.Filter{MinImpact: impact, Query: c.Search}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}
	if c.NavigationTimeout <= 0 {
		return ErrInvalidNavigationTimeout
	}
	if c.OperationTimeout <= 0 {
		return ErrInvalidOperationTimeout
	}
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}
	if c.SettleDelay < 0 {
		return ErrInvalidSettleDelay
	}
	if c.ScriptPath == "" {
		return ErrEmptyScriptPath
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if _, err := model.ParseImpact(c.MinImpact); err != nil {
		return ErrInvalidMinImpact
	}
	return nil
}
