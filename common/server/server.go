// Package server runs an HTTP handler with signal-aware graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aviaunion/portal/common/logger"
)

const defaultDrainTimeout = 30 * time.Second

// Server owns the HTTP listener lifecycle for a named service.
type Server struct {
	name         string
	httpServer   *http.Server
	log          *logger.Logger
	drainTimeout time.Duration
}

// Option adjusts server construction.
type Option func(*Server)

// WithDrainTimeout overrides how long in-flight requests get to finish
// before the listener is closed hard.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *Server) { s.drainTimeout = d }
}

// New builds a server listening on the given port.
func New(name string, port int, handler http.Handler, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		name: name,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:          log,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves until the listener fails, the context is cancelled, or a
// termination signal arrives. Cancellation and signals both drain in-flight
// requests before returning; a clean stop returns nil.
func (s *Server) Start(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("%s listening", s.name), "addr", s.httpServer.Addr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listener failed: %w", err)

	case <-ctx.Done():
		s.log.Info("context cancelled, draining", "service", s.name)

	case sig := <-stop:
		s.log.Info("shutdown signal received", "signal", sig.String())
	}

	return s.drain()
}

func (s *Server) drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", "error", err)
		if err := s.httpServer.Close(); err != nil {
			return fmt.Errorf("could not stop server: %w", err)
		}
	}

	s.log.Info("shutdown complete", "service", s.name)
	return nil
}
