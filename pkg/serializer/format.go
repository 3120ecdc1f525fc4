/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/mattn/go-isatty"
)

// Format is an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// SupportedFormats returns the accepted format names.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// ParseFormat parses a user supplied format name. An empty name selects
// DefaultFormat for stdout.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat(os.Stdout), nil
	}
	f := Format(s)
	if !f.IsUnknown() {
		return f, nil
	}

	best, bestDist := "", 3
	for _, name := range SupportedFormats() {
		if d := levenshtein.ComputeDistance(s, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	if best != "" {
		return "", fmt.Errorf("unknown output format %q, did you mean %q?", s, best)
	}
	return "", fmt.Errorf("unknown output format %q, supported: %s", s, strings.Join(SupportedFormats(), ", "))
}

// DefaultFormat returns table when f is a terminal and JSON otherwise, so
// piped output stays machine readable.
func DefaultFormat(f *os.File) Format {
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatTable
	}
	return FormatJSON
}
