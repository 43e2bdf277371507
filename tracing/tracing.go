// Package tracing installs the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"

	"food-delivery-orders/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type Controller struct {
	traceProvider *sdktrace.TracerProvider
}

// Init sets the global propagator and, when tracing is enabled, a tracer
// provider batching spans to the Jaeger collector. With tracing disabled
// the global no-op provider stays in place.
func Init(cfg config.TracingConfig) (*Controller, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !cfg.Enabled {
		return &Controller{}, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.JaegerEndpoint),
	))
	if err != nil {
		return nil, fmt.Errorf("creating jaeger exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)

	return &Controller{traceProvider: tp}, nil
}

func (c *Controller) Enabled() bool {
	return c.traceProvider != nil
}

// Shutdown flushes pending spans.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c.traceProvider == nil {
		return nil
	}
	return c.traceProvider.Shutdown(ctx)
}
