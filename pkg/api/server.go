/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package api runs the sandbox API server.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/NVIDIA/gbpctl/pkg/logging"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/sandbox"
	"github.com/NVIDIA/gbpctl/pkg/server"
)

const (
	name           = "gbpctl-sandbox"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/gbpctl/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Config selects how the sandbox is served.
type Config struct {
	// Server is the HTTP server configuration; nil uses server.DefaultConfig.
	Server *server.Config
	// Token, when set, is required in X-Auth-Token.
	Token string
	// SeedFile is an optional YAML file of initial records.
	SeedFile string
}

// Routes builds the sandbox store and its route table.
func Routes(cfg Config) (map[string]http.HandlerFunc, *sandbox.Store, error) {
	store := sandbox.NewStore(resource.NewRegistry())
	if cfg.SeedFile != "" {
		n, err := store.SeedFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("seeded sandbox", "file", cfg.SeedFile, "records", n)
	}

	var opts []sandbox.HandlerOption
	if cfg.Token != "" {
		opts = append(opts, sandbox.WithToken(cfg.Token))
	}
	h := sandbox.NewHandler(store, opts...)

	return map[string]http.HandlerFunc{
		h.Pattern(): h.ServeHTTP,
	}, store, nil
}

// Serve starts the sandbox API server and blocks until ctx is canceled or
// the process is signaled.
func Serve(ctx context.Context, cfg Config) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	r, _, err := Routes(cfg)
	if err != nil {
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg.Server),
		server.WithHandler(r),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
