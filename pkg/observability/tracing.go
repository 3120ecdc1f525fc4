/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package observability sets up OpenTelemetry tracing.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Environment variables read by TracingConfigFromEnv.
const (
	EnvTracing      = "GBPCTL_TRACING"
	EnvOTLPEndpoint = "GBPCTL_OTLP_ENDPOINT"
)

// Exporter names.
const (
	ExporterNone   = ""
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const defaultOTLPEndpoint = "localhost:4317"

// TracingConfig selects the span exporter.
type TracingConfig struct {
	ServiceName string
	Version     string
	// Exporter is "", "stdout" or "otlp". Empty disables tracing.
	Exporter string
	// Endpoint is the OTLP gRPC collector address.
	Endpoint string
	// Writer receives stdout exporter output. Nil means stderr.
	Writer io.Writer
}

// TracingConfigFromEnv reads GBPCTL_TRACING and GBPCTL_OTLP_ENDPOINT.
func TracingConfigFromEnv(serviceName, version string) TracingConfig {
	return TracingConfig{
		ServiceName: serviceName,
		Version:     version,
		Exporter:    strings.ToLower(strings.TrimSpace(os.Getenv(EnvTracing))),
		Endpoint:    os.Getenv(EnvOTLPEndpoint),
	}
}

// InitTracing installs a tracer provider and propagators per cfg and returns
// a shutdown function that flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Exporter == ExporterNone {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	// The CLI is short lived, so spans are exported synchronously.
	var processor sdktrace.SpanProcessor = sdktrace.NewSimpleSpanProcessor(exp)
	if cfg.Exporter == ExporterOTLP {
		processor = sdktrace.NewBatchSpanProcessor(exp)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled",
		"exporter", cfg.Exporter,
		"service_name", cfg.ServiceName,
	)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithoutTimestamps(),
		)
	case ExporterOTLP:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
		return otlptrace.New(ctx, client)
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// ShutdownWithTimeout flushes spans, bounded by five seconds. Failures are
// logged, not returned.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}
}
