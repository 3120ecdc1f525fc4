/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package serializer renders command results as JSON, YAML or a table.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer writes a value in some format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that own their output.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
	once   sync.Once
}

// NewWriter returns a Writer for format on w. Unknown formats fall back to JSON
// and a nil w means stdout.
func NewWriter(format Format, w io.Writer) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown output format, using json", "format", string(format))
		format = FormatJSON
	}
	if w == nil {
		w = os.Stdout
	}
	return &Writer{format: format, output: w}
}

// NewStdoutWriter returns a Writer on stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer on path, or on stdout when path is
// empty or StdoutURI. The caller must Close the returned writer.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Format returns the writer's format.
func (w *Writer) Format() Format {
	return w.format
}

// Output returns the underlying io.Writer.
func (w *Writer) Output() io.Writer {
	return w.output
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w.output, v)
	default:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Close closes the output file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	var err error
	w.once.Do(func() {
		if w.closer != nil {
			err = w.closer.Close()
		}
	})
	return err
}
