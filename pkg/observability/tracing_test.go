/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv(EnvTracing, " STDOUT ")
	t.Setenv(EnvOTLPEndpoint, "collector:4317")

	cfg := TracingConfigFromEnv("gbpctl", "v1.2.3")
	if cfg.Exporter != ExporterStdout {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, ExporterStdout)
	}
	if cfg.Endpoint != "collector:4317" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.ServiceName != "gbpctl" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "gbpctl"})
	if err != nil {
		t.Fatalf("InitTracing() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInitTracing_Stdout(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		ServiceName: "gbpctl",
		Exporter:    ExporterStdout,
		Writer:      &buf,
	})
	if err != nil {
		t.Fatalf("InitTracing() error = %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "create l3_policy")
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown)

	if !strings.Contains(buf.String(), "create l3_policy") {
		t.Errorf("exported spans missing span name: %q", buf.String())
	}
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Exporter: "zipkin"})
	if err == nil || !strings.Contains(err.Error(), "unsupported tracing exporter") {
		t.Errorf("InitTracing(zipkin) error = %v, want unsupported tracing exporter", err)
	}
}
