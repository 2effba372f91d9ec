package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sesi/membership/internal/bootstrap"
	"github.com/sesi/membership/internal/config"
)

const shutdownTimeout = 15 * time.Second

// Server holds the state for the HTTP server and the notification worker.
type Server struct {
	config *config.Config
	router *gin.Engine
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, opens the stores, applies migrations, seeds
// reference data and builds the router.
func NewServer(ctx context.Context, configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	if err := bootstrap.RunMigrations(cfg, lgr); err != nil {
		return nil, err
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	if err := bootstrap.Seed(ctx, deps); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway...")
	}

	router, err := bootstrap.SetupRouter(deps)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	return &Server{
		config: cfg,
		router: router,
		deps:   deps,
		logger: lgr,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP and drains the notification queue until ctx is cancelled or
// SIGINT/SIGTERM arrives, then shuts both down.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// The worker is not bound to the signal context; it stops when the queue closes.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.deps.Worker.Run(workerCtx)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutdown signal received, stopping...")
		err := s.Shutdown(context.Background())
		// The closed queue ends the worker once drained; cap how long that takes.
		time.AfterFunc(shutdownTimeout, stopWorker)
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the stores and queue.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = errors.Join(errs, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Closing the queue lets the worker drain what is buffered and exit
	if err := s.deps.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing dependencies")
		errs = errors.Join(errs, err)
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	return errs
}
