package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/a11yscan/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAddress is the listen address used when none is configured.
	DefaultAddress = ":8080"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// MaxRequestBodySize caps the size of POST /api/scan bodies.
	MaxRequestBodySize = 1 << 20

	readHeaderTimeout = 10 * time.Second
)

// Scanner runs one accessibility scan. Implementations must never panic
// and must report every failure inside the returned response.
type Scanner interface {
	Scan(ctx context.Context, rawURL string) model.ScanResponse
}

// Server is the HTTP front end of the scanner.
type Server struct {
	scanner         Scanner
	address         string
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the "host:port" to listen on.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.address = addr
	}
}

// WithShutdownTimeout sets how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithLogger sets the logger for request logs and errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server that scans with scanner.
func New(scanner Scanner, opts ...Option) *Server {
	s := &Server{
		scanner:         scanner,
		address:         DefaultAddress,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.address
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. In-flight requests get the
// shutdown timeout to finish; scans still running after that are cancelled
// through the server's base context.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	baseCtx, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()

	srv := &http.Server{
		Handler:           s.handler(baseCtx),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()

		s.logger.Info("shutting down server", "timeout", s.shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		cancelBase()
		if err != nil {
			_ = srv.Close()
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
