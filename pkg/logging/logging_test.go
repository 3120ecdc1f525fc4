/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewCLILogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewCLILogger(&buf, slog.LevelInfo, false)

	l.Debug("hidden")
	l.Info("resolved reference", "resource", "l2_policy")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "resource=l2_policy") {
		t.Errorf("output %q missing resource attribute", out)
	}
}

func TestNewCLILogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewCLILogger(&buf, slog.LevelDebug, true).Debug("api request", "method", "GET")

	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "api request" || rec["method"] != "GET" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestSetDefaultCLILogger_DebugWins(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(EnvLogLevel, "error")

	l := SetDefaultCLILogger(true, false)
	if !l.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("--debug should enable debug level")
	}

	l = SetDefaultCLILogger(false, false)
	if l.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("LOG_LEVEL=error should disable warn")
	}
	if !l.Enabled(t.Context(), slog.LevelError) {
		t.Error("LOG_LEVEL=error should enable error")
	}
}
