// Package telemetry owns tracing setup and the Prometheus collectors shared
// by every lookup surface.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"leetstats/pkg/logger"
)

// TracerName is the instrumentation scope used by leetstats spans
const TracerName = "leetstats"

// Config controls tracing
type Config struct {
	Tracing     bool
	ServiceName string
	Version     string
	// Writer receives exported spans; defaults to stderr
	Writer io.Writer
}

// Telemetry handles tracing setup and shutdown
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
	config         Config
}

// New initializes tracing. When tracing is disabled the global noop provider
// stays in place and spans cost nothing.
func New(cfg Config) (*Telemetry, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = TracerName
	}
	if !cfg.Tracing {
		logger.Debug("Tracing disabled, using noop provider")
		return &Telemetry{Tracer: otel.Tracer(TracerName), config: cfg}, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	logger.WithFields(map[string]interface{}{
		"service": cfg.ServiceName,
		"version": cfg.Version,
	}).Info("Tracing initialized")

	return &Telemetry{
		TracerProvider: tp,
		Tracer:         tp.Tracer(TracerName),
		config:         cfg,
	}, nil
}

// Shutdown flushes pending spans
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

// StartSpan starts a span on the global provider
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}
