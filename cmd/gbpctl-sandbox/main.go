/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/gbpctl/pkg/api"
	"github.com/NVIDIA/gbpctl/pkg/server"
)

func main() {
	cfg := server.DefaultConfig()

	cmd := &cli.Command{
		Name:  "gbpctl-sandbox",
		Usage: "In-memory group policy and service chain API for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen address",
				Value: cfg.Address,
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "listen port",
				Value:   cfg.Port,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "require this X-Auth-Token on every request",
				Sources: cli.EnvVars("GBPCTL_SANDBOX_TOKEN"),
			},
			&cli.StringFlag{
				Name:      "seed",
				Usage:     "YAML file of records to load at startup",
				TakesFile: true,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "requests per second",
				Value: float64(cfg.RateLimit),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg.Address = cmd.String("address")
			cfg.Port = int(cmd.Int("port"))
			cfg.RateLimit = rate.Limit(cmd.Float("rate-limit"))
			return api.Serve(ctx, api.Config{
				Server:   cfg,
				Token:    cmd.String("token"),
				SeedFile: cmd.String("seed"),
			})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
