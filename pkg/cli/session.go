/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gbpctl/pkg/client"
	"github.com/NVIDIA/gbpctl/pkg/config"
	"github.com/NVIDIA/gbpctl/pkg/dispatch"
	"github.com/NVIDIA/gbpctl/pkg/resolver"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

// session is the per-invocation wiring of config, client, resolver,
// renderer and dispatch shell.
type session struct {
	cfg    *config.Config
	shell  *dispatch.Shell
	output serializer.Serializer
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfigFile))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet(flagURL) {
		cfg.Endpoint = cmd.String(flagURL)
	}
	if cmd.IsSet(flagToken) {
		cfg.Token = cmd.String(flagToken)
	}
	if d, ok := requestTimeout(cmd); ok {
		cfg.Timeout = d
	}
	if cmd.IsSet(flagVerifyIDs) {
		cfg.VerifyIDs = cmd.Bool(flagVerifyIDs)
	}
	if cmd.IsSet(flagCacheLookups) {
		cfg.CacheLookups = cmd.Bool(flagCacheLookups)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) openSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	api, err := client.New(cfg.Endpoint,
		client.WithToken(cfg.Token),
		client.WithTimeout(cfg.Timeout),
		client.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		client.WithUserAgent(name+"/"+version),
		client.WithRegistry(a.registry),
	)
	if err != nil {
		return nil, err
	}

	ropts := []resolver.Option{
		resolver.WithRegistry(a.registry),
		resolver.WithVerifyIDs(cfg.VerifyIDs),
		resolver.WithLogger(slog.Default()),
	}
	if cfg.CacheLookups {
		ropts = append(ropts, resolver.WithCache())
	}

	format, err := parseOutputFormat(cmd, cfg.Format, a.stdout)
	if err != nil {
		return nil, err
	}

	var output serializer.Serializer
	if path := cmd.String(flagOutput); path != "" && path != serializer.StdoutURI {
		if output, err = serializer.NewFileWriterOrStdout(format, path); err != nil {
			return nil, err
		}
	} else {
		output = serializer.NewWriter(format, a.stdout)
	}

	slog.Debug("session ready",
		"endpoint", cfg.Endpoint,
		"format", format,
		"verifyIDs", cfg.VerifyIDs,
		"cacheLookups", cfg.CacheLookups)

	return &session{
		cfg: cfg,
		shell: dispatch.New(api,
			dispatch.WithResolver(resolver.New(api, ropts...)),
			dispatch.WithRenderer(output),
			dispatch.WithOutput(a.stdout),
			dispatch.WithLogger(slog.Default()),
		),
		output: output,
	}, nil
}

func (s *session) close() {
	if c, ok := s.output.(serializer.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}
}

// withSession opens a session for cmd, runs fn and closes the session.
func (a *app) withSession(_ context.Context, cmd *cli.Command, fn func(*session) error) error {
	s, err := a.openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

// withShell is withSession for actions that only need the dispatch shell.
func (a *app) withShell(ctx context.Context, cmd *cli.Command, fn func(*dispatch.Shell) error) error {
	return a.withSession(ctx, cmd, func(s *session) error {
		return fn(s.shell)
	})
}
