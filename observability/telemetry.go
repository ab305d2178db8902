package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the tracer and instruments the host reports through.
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewTelemetry creates telemetry from the given providers. Nil providers
// fall back to the otel globals.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m, err := NewMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		return nil, err
	}
	return &Telemetry{Tracer: tp.Tracer(InstrumentationName), Metrics: m}, nil
}

// StartSpan starts a span on the telemetry tracer.
func (t *Telemetry) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, opts...)
}

// EndSpan records err, if any, and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordBuild records a finished build.
func (t *Telemetry) RecordBuild(ctx context.Context, status string, duration time.Duration) {
	t.Metrics.RecordBuild(ctx, status, duration)
}

// RecordExtensions records extension outcomes.
func (t *Telemetry) RecordExtensions(ctx context.Context, succeeded, failed int) {
	t.Metrics.RecordExtensions(ctx, succeeded, failed)
}
