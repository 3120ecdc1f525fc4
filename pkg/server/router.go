/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Default handler
	mux.HandleFunc("/", s.withMiddleware(s.handleDefault))

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	for pattern, h := range s.handlers {
		mux.HandleFunc(pattern, s.withMiddleware(h))
	}

	return mux
}

func (s *Server) routes() []string {
	routes := make([]string, 0, len(s.handlers)+3)
	for pattern := range s.handlers {
		routes = append(routes, pattern)
	}
	sort.Strings(routes)
	return append(routes, "/health", "/ready", "/metrics")
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, gbperrors.ErrCodeNotFound, "no route for "+r.URL.Path, false, nil)
		return
	}

	resp := struct {
		Name      string   `json:"name" yaml:"name"`
		Version   string   `json:"version" yaml:"version"`
		Ready     bool     `json:"ready" yaml:"ready"`
		Timestamp string   `json:"timestamp" yaml:"timestamp"`
		Routes    []string `json:"routes" yaml:"routes"`
	}{
		Name:      s.name,
		Version:   s.version,
		Ready:     s.isReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}
