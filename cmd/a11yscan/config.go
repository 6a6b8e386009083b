package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/a11yscan/internal/browser"
	"github.com/nao1215/a11yscan/internal/config"
	"github.com/nao1215/a11yscan/internal/scan"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addBrowserFlags registers the flags shared by serve and scan.
func addBrowserFlags(flags *pflag.FlagSet) {
	flags.Duration("settle-delay", config.DefaultSettleDelay,
		"Wait after DOMContentLoaded before auditing")
	flags.Duration("nav-timeout", config.DefaultNavigationTimeout,
		"Timeout for page navigation")
	flags.Duration("op-timeout", config.DefaultOperationTimeout,
		"Timeout for rule engine injection and evaluation")
	flags.String("script", config.DefaultScriptPath,
		"Path of the axe-core bundle (axe.min.js)")
	flags.String("browser-bin", "",
		"Chromium executable (default: auto-detect or download)")
}

// loadConfig builds the Config for cmd: defaults, then the config file,
// then flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.ConfigFilePath = getConfigFlag(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	if _, err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := applyBrowserFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// applyBrowserFlags overrides cfg with the browser flags that were set.
func applyBrowserFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	if flags.Changed("settle-delay") {
		if cfg.SettleDelay, err = flags.GetDuration("settle-delay"); err != nil {
			return err
		}
	}
	if flags.Changed("nav-timeout") {
		if cfg.NavigationTimeout, err = flags.GetDuration("nav-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("op-timeout") {
		if cfg.OperationTimeout, err = flags.GetDuration("op-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("script") {
		if cfg.ScriptPath, err = flags.GetString("script"); err != nil {
			return err
		}
	}
	if flags.Changed("browser-bin") {
		if cfg.BrowserBin, err = flags.GetString("browser-bin"); err != nil {
			return err
		}
	}
	return nil
}

// newScanner creates a Scanner driving a real Chromium configured by cfg.
func newScanner(cfg *config.Config, logger *slog.Logger) *scan.Scanner {
	launcher := browser.NewRodLauncher(
		browser.WithBin(cfg.BrowserBin),
		browser.WithNavigationTimeout(cfg.NavigationTimeout),
		browser.WithOperationTimeout(cfg.OperationTimeout),
		browser.WithLogger(logger),
	)
	return scan.NewScanner(launcher,
		scan.WithSettleDelay(cfg.SettleDelay),
		scan.WithScriptPath(cfg.ScriptPath),
		scan.WithLogger(logger),
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
