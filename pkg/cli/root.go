/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gosuri/uitable"
	"github.com/urfave/cli/v3"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/logging"
	"github.com/NVIDIA/gbpctl/pkg/observability"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

const name = "gbpctl"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flag names.
const (
	flagURL          = "url"
	flagToken        = "token"
	flagConfigFile   = "config-file"
	flagFormat       = "format"
	flagOutput       = "output"
	flagDebug        = "debug"
	flagLogJSON      = "log-json"
	flagVerifyIDs    = "verify-ids"
	flagCacheLookups = "cache-lookups"
	flagTimeout      = "timeout"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
	}
)

// Execute runs gbpctl with the process arguments and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Run executes the command line argv and returns the process exit status.
// Errors are reported on stderr.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(resource.NewRegistry(), stdout, stderr)
	if err := cmd.Run(ctx, argv); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return gbperrors.ExitCode(err)
	}
	return gbperrors.ExitOK
}

// app carries what every generated command needs.
type app struct {
	registry *resource.Registry
	stdout   io.Writer
}

func newRootCmd(reg *resource.Registry, stdout, stderr io.Writer) *cli.Command {
	a := &app{registry: reg, stdout: stdout}

	var shutdownTracing func(context.Context) error

	return &cli.Command{
		Name:                  name,
		Usage:                 "Group policy and service chain client",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Writer:                stdout,
		ErrWriter:             stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagURL,
				Usage:   "API endpoint, e.g. http://controller:9696",
				Sources: cli.EnvVars("GBPCTL_URL", "OS_URL"),
			},
			&cli.StringFlag{
				Name:    flagToken,
				Usage:   "authentication token",
				Sources: cli.EnvVars("GBPCTL_TOKEN", "OS_TOKEN"),
			},
			&cli.StringFlag{
				Name:  flagConfigFile,
				Usage: "path to the config file (env GBPCTL_CONFIG)",
			},
			formatFlag,
			outputFlag,
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "per-request timeout",
			},
			&cli.BoolFlag{
				Name:  flagVerifyIDs,
				Usage: "confirm that ID-shaped references exist",
			},
			&cli.BoolFlag{
				Name:  flagCacheLookups,
				Usage: "reuse name lookups within one invocation",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagLogJSON,
				Usage: "output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultCLILogger(cmd.Bool(flagDebug), cmd.Bool(flagLogJSON))

			shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(name, version))
			if err != nil {
				return ctx, gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "failed to initialize tracing", err)
			}
			shutdownTracing = shutdown
			return ctx, nil
		},
		After: func(ctx context.Context, _ *cli.Command) error {
			if shutdownTracing != nil {
				observability.ShutdownWithTimeout(context.WithoutCancel(ctx), shutdownTracing)
			}
			return nil
		},
		OnUsageError:  onUsageError,
		ShellComplete: commandLister,
		Commands:      a.resourceCommands(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				if _, err := a.registry.Lookup(cmd.Args().First()); err != nil {
					return err
				}
				return gbperrors.Invalid("verb", fmt.Sprintf("missing verb for %s, expected one of %s",
					cmd.Args().First(), strings.Join(verbs, ", ")))
			}
			return a.printUsage(cmd.Root().Writer)
		},
	}
}

// printUsage writes the synopsis and the resource table.
func (a *app) printUsage(w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	t := uitable.New()
	t.MaxColWidth = 60
	t.AddRow("RESOURCE", "ALIASES", "DESCRIPTION")
	for _, d := range a.registry.Managed() {
		t.AddRow(d.Type.CLIName(), joinAliases(commandAliases(d)), "Manage "+d.Summary+" resources")
	}

	_, err := fmt.Fprintf(w, "Usage: %s [global flags] <resource> <verb> [flags] [args]\n\n%s\n\nRun '%s --help' for global flags.\n",
		name, t, name)
	return err
}

// commandLister prints the visible subcommands of cmd, one per line, for
// shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}

	w := io.Writer(os.Stdout)
	if root := cmd.Root(); root != nil && root.Writer != nil {
		w = root.Writer
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}

// requestTimeout returns the --timeout value when set.
func requestTimeout(cmd *cli.Command) (time.Duration, bool) {
	if !cmd.IsSet(flagTimeout) {
		return 0, false
	}
	d := cmd.Duration(flagTimeout)
	if d <= 0 {
		slog.Debug("ignoring non-positive timeout", "timeout", d)
		return 0, false
	}
	return d, true
}
