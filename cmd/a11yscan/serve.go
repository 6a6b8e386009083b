package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/a11yscan/internal/config"
	"github.com/nao1215/a11yscan/internal/log"
	"github.com/nao1215/a11yscan/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the accessibility scan web app",
		Long: `Serve starts the web app: a form at / and a JSON API.

  POST /api/scan         {"url": "example.com"} -> scan result
  GET  /api/guides       fix guides keyed by rule id
  GET  /api/guides/{id}  one fix guide
  GET  /healthz          health check

Every scan uses its own browser, so concurrent requests do not share state.
SIGINT or SIGTERM stop the server after in-flight requests finish.

Examples:
  # Listen on the default address (:8080)
  a11yscan serve

  # Listen on localhost only, with a longer navigation timeout
  a11yscan serve --addr 127.0.0.1:3000 --nav-timeout 60s`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddress, "Listen address (host:port)")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"Grace period for in-flight requests on shutdown")
	cmd.Flags().Bool("json-logs", false, "Write request logs as JSON")
	addBrowserFlags(cmd.Flags())

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewServerLogger(os.Stderr, cfg.Verbose, cfg.JSONLogs)
	slog.SetDefault(logger)

	if _, err := os.Stat(cfg.ScriptPath); err != nil {
		logger.Warn("rule engine bundle not readable; every scan will fail until it is installed",
			"script", cfg.ScriptPath, "error", err)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	srv := server.New(newScanner(cfg, logger),
		server.WithAddress(cfg.ListenAddress),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithLogger(logger),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "a11yscan listening on %s\n", cfg.ListenAddress)
	return srv.Run(ctx)
}

// applyServeFlags overrides cfg with the server flags that were set.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()
	if flags.Changed("addr") {
		if cfg.ListenAddress, err = flags.GetString("addr"); err != nil {
			return err
		}
	}
	if flags.Changed("shutdown-timeout") {
		if cfg.ShutdownTimeout, err = flags.GetDuration("shutdown-timeout"); err != nil {
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
