/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gbpctl/pkg/args"
	"github.com/NVIDIA/gbpctl/pkg/body"
	"github.com/NVIDIA/gbpctl/pkg/dispatch"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

// List flag names.
const (
	flagPageSize = "page-size"
	flagSortKey  = "sort-key"
	flagSortDir  = "sort-dir"
	flagFilter   = "filter"
	flagColumn   = "column"
)

var verbs = []string{dispatch.VerbList, dispatch.VerbShow, dispatch.VerbCreate, dispatch.VerbUpdate, dispatch.VerbDelete}

// resourceCommands returns one command per managed resource type.
func (a *app) resourceCommands() []*cli.Command {
	managed := a.registry.Managed()
	cmds := make([]*cli.Command, 0, len(managed))
	for _, d := range managed {
		cmds = append(cmds, a.resourceCommand(d))
	}
	return cmds
}

func (a *app) resourceCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:            d.Type.CLIName(),
		Aliases:         commandAliases(d),
		Usage:           fmt.Sprintf("Manage %s resources", d.Summary),
		HideHelpCommand: true,
		OnUsageError:    onUsageError,
		ShellComplete:   commandLister,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return gbperrors.Invalid("verb", fmt.Sprintf("unknown verb %q for %s, expected one of %s",
					cmd.Args().First(), d.Type.CLIName(), strings.Join(verbs, ", ")))
			}
			return gbperrors.Invalid("verb", fmt.Sprintf("missing verb for %s, expected one of %s",
				d.Type.CLIName(), strings.Join(verbs, ", ")))
		},
		Commands: []*cli.Command{
			a.listCommand(d),
			a.showCommand(d),
			a.createCommand(d),
			a.updateCommand(d),
			a.deleteCommand(d),
		},
	}
}

func (a *app) listCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:         dispatch.VerbList,
		Aliases:      []string{"ls"},
		Usage:        fmt.Sprintf("List %ss", d.Summary),
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagPageSize,
				Usage: "maximum number of records to request",
			},
			&cli.StringSliceFlag{
				Name:  flagSortKey,
				Usage: "sort by this attribute, repeatable",
			},
			&cli.StringSliceFlag{
				Name:  flagSortDir,
				Usage: "sort direction (asc, desc) for the matching --sort-key",
			},
			&cli.StringSliceFlag{
				Name:  flagFilter,
				Usage: "only list records where key=value, repeatable",
			},
			&cli.StringSliceFlag{
				Name:    flagColumn,
				Aliases: []string{"c"},
				Usage:   "attribute to include, repeatable",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			return a.withShell(ctx, cmd, func(s *dispatch.Shell) error {
				_, err := s.List(ctx, d, opts)
				return err
			})
		},
	}
}

func (a *app) showCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:         dispatch.VerbShow,
		Aliases:      []string{"get"},
		Usage:        fmt.Sprintf("Show a %s", d.Summary),
		ArgsUsage:    "<name-or-id>",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token, err := identifier(cmd)
			if err != nil {
				return err
			}
			return a.withShell(ctx, cmd, func(s *dispatch.Shell) error {
				_, err := s.Show(ctx, d, token)
				return err
			})
		},
	}
}

func (a *app) createCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:         dispatch.VerbCreate,
		Usage:        fmt.Sprintf("Create a %s", d.Summary),
		ArgsUsage:    "<name>",
		OnUsageError: onUsageError,
		Flags:        fieldFlags(d.CreateFields(), body.ModeCreate),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return gbperrors.Invalid("name", fmt.Sprintf("expected one name, got %d arguments", cmd.Args().Len()))
			}
			in, err := collectArgs(cmd, d.CreateFields(), body.ModeCreate)
			if err != nil {
				return err
			}
			if cmd.Args().Present() {
				in.SetString(resource.FieldName, cmd.Args().First())
			}
			return a.withSession(ctx, cmd, func(s *session) error {
				if s.cfg.TenantID != "" && !in.Has(resource.FieldTenantID) {
					if f, ok := d.Field(resource.FieldTenantID); ok && f.Create {
						in.SetString(resource.FieldTenantID, s.cfg.TenantID)
					}
				}
				_, err := s.shell.Create(ctx, d, in)
				return err
			})
		},
	}
}

func (a *app) updateCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:         dispatch.VerbUpdate,
		Usage:        fmt.Sprintf("Update a %s", d.Summary),
		ArgsUsage:    "<name-or-id>",
		OnUsageError: onUsageError,
		Flags:        fieldFlags(d.UpdateFields(), body.ModeUpdate),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			in, err := collectArgs(cmd, d.UpdateFields(), body.ModeUpdate)
			if err != nil {
				return err
			}
			if cmd.Args().Len() > 1 {
				return gbperrors.Invalid("identifier", fmt.Sprintf("expected one name or ID, got %d arguments", cmd.Args().Len()))
			}
			return a.withShell(ctx, cmd, func(s *dispatch.Shell) error {
				_, err := s.Update(ctx, d, cmd.Args().First(), in)
				return err
			})
		},
	}
}

func (a *app) deleteCommand(d *resource.Descriptor) *cli.Command {
	return &cli.Command{
		Name:         dispatch.VerbDelete,
		Aliases:      []string{"rm"},
		Usage:        fmt.Sprintf("Delete a %s", d.Summary),
		ArgsUsage:    "<name-or-id>",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token, err := identifier(cmd)
			if err != nil {
				return err
			}
			return a.withShell(ctx, cmd, func(s *dispatch.Shell) error {
				return s.Delete(ctx, d, token)
			})
		},
	}
}

// commandAliases returns the declared aliases plus the underscore spelling
// of the type when it differs from the command name.
func commandAliases(d *resource.Descriptor) []string {
	aliases := append([]string(nil), d.Aliases...)
	if string(d.Type) != d.Type.CLIName() {
		aliases = append(aliases, string(d.Type))
	}
	return aliases
}

func joinAliases(aliases []string) string {
	return strings.Join(aliases, ", ")
}

// fieldFlags builds the flags for the fields a verb accepts. The positional
// name is not a flag on create.
func fieldFlags(fields []resource.Field, mode body.Mode) []cli.Flag {
	flags := make([]cli.Flag, 0, len(fields))
	for _, f := range fields {
		if f.Positional && mode == body.ModeCreate {
			continue
		}
		switch f.Kind {
		case resource.KindInt:
			flag := &cli.IntFlag{Name: f.Flag, Usage: f.Usage}
			if v, ok := f.Default.(int); ok && mode == body.ModeCreate {
				flag.Value = v
			}
			flags = append(flags, flag)
		case resource.KindListReference:
			flags = append(flags, &cli.StringSliceFlag{
				Name:  f.Flag,
				Usage: f.Usage + " (comma separated, repeatable)",
			})
		case resource.KindKeyReference:
			flags = append(flags, &cli.StringSliceFlag{
				Name:  f.Flag,
				Usage: f.Usage + " (name=value pairs, repeatable)",
			})
		default:
			flags = append(flags, &cli.StringFlag{Name: f.Flag, Usage: f.Usage})
		}
	}
	return flags
}

// collectArgs reads the flags the user actually set into Args. Unset flags
// are absent, so defaults stay the body builder's decision.
func collectArgs(cmd *cli.Command, fields []resource.Field, mode body.Mode) (*args.Args, error) {
	a := args.New()
	for _, f := range fields {
		if f.Positional && mode == body.ModeCreate {
			continue
		}
		if !cmd.IsSet(f.Flag) {
			continue
		}
		switch f.Kind {
		case resource.KindInt:
			a.SetInt(f.Name, int(cmd.Int(f.Flag)))
		case resource.KindListReference:
			a.SetList(f.Name, args.SplitList(cmd.StringSlice(f.Flag)))
		case resource.KindKeyReference:
			m, err := args.ParseKeyValues(cmd.StringSlice(f.Flag))
			if err != nil {
				return nil, gbperrors.Invalid(f.Name, err.Error())
			}
			a.SetMap(f.Name, m)
		default:
			a.SetString(f.Name, cmd.String(f.Flag))
		}
	}
	return a, nil
}

func listOptions(cmd *cli.Command) (dispatch.ListOptions, error) {
	opts := dispatch.ListOptions{
		PageSize: int(cmd.Int(flagPageSize)),
		SortKeys: args.SplitList(cmd.StringSlice(flagSortKey)),
		SortDirs: args.SplitList(cmd.StringSlice(flagSortDir)),
		Columns:  args.SplitList(cmd.StringSlice(flagColumn)),
	}
	if cmd.IsSet(flagFilter) {
		filters, err := args.ParseKeyValues(cmd.StringSlice(flagFilter))
		if err != nil {
			return opts, gbperrors.Invalid("filter", err.Error())
		}
		opts.Filters = filters
	}
	return opts, nil
}

// identifier returns the single positional name-or-ID.
func identifier(cmd *cli.Command) (string, error) {
	switch cmd.Args().Len() {
	case 0:
		return "", gbperrors.Invalid("identifier", "a name or ID is required")
	case 1:
		return cmd.Args().First(), nil
	default:
		return "", gbperrors.Invalid("identifier", fmt.Sprintf("expected one name or ID, got %d arguments", cmd.Args().Len()))
	}
}
