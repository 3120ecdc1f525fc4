/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch implements the five generic resource verbs.
//
// Every verb follows the same path: resolve the identifier or build the body,
// submit one request and render the result. A failure at any step ends the
// invocation before anything further is sent to the backend.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NVIDIA/gbpctl/pkg/body"
	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resolver"
	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/serializer"
)

const tracerName = "github.com/NVIDIA/gbpctl/pkg/dispatch"

// Verb names used for logging, tracing and metrics.
const (
	VerbList   = "list"
	VerbShow   = "show"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// Shell runs resource verbs against an API.
type Shell struct {
	api      client.API
	resolver body.Resolver
	builder  *body.Builder
	renderer serializer.Serializer
	out      io.Writer
	logger   *slog.Logger
}

// Option is a functional option for configuring a Shell.
type Option func(*Shell)

// WithResolver replaces the default resolver.
func WithResolver(r body.Resolver) Option {
	return func(s *Shell) {
		s.resolver = r
	}
}

// WithRenderer sets the serializer results are rendered with.
func WithRenderer(r serializer.Serializer) Option {
	return func(s *Shell) {
		s.renderer = r
	}
}

// WithOutput sets where confirmation messages are written.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithLogger sets the base logger. Each verb derives a child carrying the
// resource type and verb.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Shell on api. Without options it resolves with a plain
// resolver, renders JSON to stdout and logs with slog.Default().
func New(api client.API, opts ...Option) *Shell {
	s := &Shell{
		api:    api,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = resolver.New(api, resolver.WithLogger(s.logger))
	}
	if s.renderer == nil {
		s.renderer = serializer.NewWriter(serializer.FormatJSON, s.out)
	}
	s.builder = body.NewBuilder(s.resolver)
	return s
}

// begin opens the span and logger for one verb. The returned finish func
// records the outcome.
func (s *Shell) begin(ctx context.Context, verb string, d *resource.Descriptor) (context.Context, *slog.Logger, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, verb+" "+string(d.Type),
		trace.WithAttributes(
			attribute.String("gbp.resource", string(d.Type)),
			attribute.String("gbp.verb", verb),
		))
	log := s.logger.With("resource", string(d.Type), "verb", verb)
	start := time.Now()

	return ctx, log, func(err error) {
		result := "success"
		if err != nil {
			result = string(gbperrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug("command failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		} else {
			log.Debug("command completed", "duration_ms", time.Since(start).Milliseconds())
		}
		commandTotal.WithLabelValues(string(d.Type), verb, result).Inc()
		span.End()
	}
}

func (s *Shell) render(ctx context.Context, v any) error {
	if err := s.renderer.Serialize(ctx, v); err != nil {
		return gbperrors.Wrap(gbperrors.ErrCodeInternal, "failed to render output", err)
	}
	return nil
}

// resolveIdentifier resolves the positional name-or-ID of the target resource.
func (s *Shell) resolveIdentifier(ctx context.Context, d *resource.Descriptor, token string) (string, error) {
	if token == "" {
		return "", gbperrors.Invalid("id", fmt.Sprintf("a %s name or ID is required", d.Summary))
	}
	return s.resolver.Resolve(ctx, d.Type, token)
}
