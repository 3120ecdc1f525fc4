/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package logging configures the process-wide slog logger.
//
// The CLI logs human readable text to stderr so stdout stays reserved for
// command output. The sandbox server logs JSON tagged with its name and
// version.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable that overrides the log level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name to a slog.Level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewCLILogger returns a logger writing to w at level, as JSON when asJSON.
func NewCLILogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetDefaultCLILogger installs a stderr logger as the slog default. debug
// wins over LOG_LEVEL, which wins over the warn default.
func SetDefaultCLILogger(debug, asJSON bool) *slog.Logger {
	level := slog.LevelWarn
	if env := os.Getenv(EnvLogLevel); env != "" {
		level = ParseLevel(env)
	}
	if debug {
		level = slog.LevelDebug
	}
	l := NewCLILogger(os.Stderr, level, asJSON)
	slog.SetDefault(l)
	return l
}

// SetDefaultStructuredLogger installs a JSON stderr logger carrying the
// service name and version on every record.
func SetDefaultStructuredLogger(name, version string) *slog.Logger {
	level := ParseLevel(os.Getenv(EnvLogLevel))
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("service", name, "version", version)
	slog.SetDefault(l)
	return l
}
