// ABOUTME: OpenTelemetry tracer provider setup: stdout exporter when enabled, global no-op otherwise.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/2389-research/cohort/logging"
)

// Config controls tracing.
type Config struct {
	Enabled     bool
	ServiceName string
	Version     string
	Sampling    float64
	Writer      io.Writer // span output; defaults to stderr
}

// Init installs a global tracer provider and returns its shutdown func. When
// tracing is disabled the global no-op provider is left in place and the
// returned func does nothing.
func Init(ctx context.Context, log *logging.Logger, cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	name := cfg.ServiceName
	if name == "" {
		name = "cohort"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(name),
		semconv.ServiceVersionKey.String(cfg.Version),
		attribute.String("service.component", "web"),
	))
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("otel stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Sampling))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if log != nil {
		log.Info("tracing enabled", "service", name, "sampling", cfg.Sampling)
	}
	return tp.Shutdown, nil
}
