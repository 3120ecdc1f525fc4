/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

// parseOutputFormat returns the --format value, the configured format, or
// the terminal-dependent default for out, in that order.
func parseOutputFormat(cmd *cli.Command, configured string, out io.Writer) (serializer.Format, error) {
	value := cmd.String(flagFormat)
	if value == "" {
		value = configured
	}
	if value == "" {
		if f, ok := out.(*os.File); ok {
			return serializer.DefaultFormat(f), nil
		}
		return serializer.FormatJSON, nil
	}
	f, err := serializer.ParseFormat(value)
	if err != nil {
		return "", gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "invalid --format", err)
	}
	return f, nil
}

// onUsageError marks flag parsing failures as invalid input.
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "invalid usage", err)
}
