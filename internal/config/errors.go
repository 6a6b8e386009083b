package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidListenAddress is returned when the listen address is empty.
	ErrInvalidListenAddress = errors.New("invalid listen address: must not be empty")

	// ErrInvalidNavigationTimeout is returned when the navigation timeout is not positive.
	ErrInvalidNavigationTimeout = errors.New("invalid navigation timeout: must be positive")

	// ErrInvalidOperationTimeout is returned when the browser operation timeout is not positive.
	ErrInvalidOperationTimeout = errors.New("invalid operation timeout: must be positive")

	// ErrInvalidShutdownTimeout is returned when the shutdown timeout is not positive.
	ErrInvalidShutdownTimeout = errors.New("invalid shutdown timeout: must be positive")

	// ErrInvalidSettleDelay is returned when the settle delay is negative.
	// Use 0 to audit immediately after DOMContentLoaded.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be non-negative")

	// ErrEmptyScriptPath is returned when no rule-engine script path is configured.
	ErrEmptyScriptPath = errors.New("invalid rule engine script: path must not be empty")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMinImpact is returned when the minimum impact is not a known level.
	ErrInvalidMinImpact = errors.New("invalid minimum impact: use minor, moderate, serious or critical")
)
