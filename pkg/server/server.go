/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package server provides the HTTP server shell used by the sandbox API:
// functional options, health and readiness probes, Prometheus metrics,
// request middleware and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server is an HTTP server with readiness tracking.
type Server struct {
	name     string
	version  string
	config   *Config
	handlers map[string]http.HandlerFunc

	rateLimiter *rate.Limiter
	httpServer  *http.Server

	mu    sync.RWMutex
	ready bool
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithName sets the name reported by the root route.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the version reported by the root route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithHandler registers API handlers keyed by mux pattern. The handlers get
// the full middleware chain.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for pattern, h := range handlers {
			s.handlers[pattern] = h
		}
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		name:     "server",
		version:  "dev",
		config:   DefaultConfig(),
		handlers: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	return s
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Run listens on the configured address and blocks until ctx is canceled or
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.httpServer = &http.Server{
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "address", ln.Addr().String())
		s.SetReady(true)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.SetReady(false)
		slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
