package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hostkit/component"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("orders")
	if cfg.ServiceName != "orders" {
		t.Errorf("expected service name 'orders', got %q", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("orders")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Interval)
	}
}

func TestNewMetricsNoop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	m.RecordBuild(context.Background(), StatusSucceeded, time.Millisecond)
	m.RecordExtensions(context.Background(), 1, 1)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumByStatus(t *testing.T, data metricdata.Aggregation) map[string]int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum, got %T", data)
	}
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value(AttrStatus)
		out[status.AsString()] += dp.Value
	}
	return out
}

func TestTelemetryRecordsBuildMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	tel, err := NewTelemetry(nil, mp)
	if err != nil {
		t.Fatalf("NewTelemetry failed: %v", err)
	}

	ctx := context.Background()
	tel.RecordBuild(ctx, StatusSucceeded, 20*time.Millisecond)
	tel.RecordBuild(ctx, StatusFailed, 5*time.Millisecond)
	tel.RecordExtensions(ctx, 3, 1)
	tel.RecordExtensions(ctx, 0, 0)

	metrics := collect(t, reader)

	builds := sumByStatus(t, metrics[MetricBuildTotal])
	if builds[StatusSucceeded] != 1 || builds[StatusFailed] != 1 {
		t.Errorf("unexpected build counts %v", builds)
	}

	extensions := sumByStatus(t, metrics[MetricExtensionsTotal])
	if extensions[StatusSucceeded] != 3 || extensions[StatusFailed] != 1 {
		t.Errorf("unexpected extension counts %v", extensions)
	}

	hist, ok := metrics[MetricBuildDuration].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected float64 histogram, got %T", metrics[MetricBuildDuration])
	}
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("expected 2 recorded durations, got %d", count)
	}
}

func TestTelemetrySpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tel, err := NewTelemetry(tp, nil)
	if err != nil {
		t.Fatalf("NewTelemetry failed: %v", err)
	}

	_, ok := tel.StartSpan(context.Background(), SpanHostBuild,
		oteltrace.WithAttributes(AttrApplicationName.String("demo")))
	EndSpan(ok, nil)

	_, failed := tel.StartSpan(context.Background(), SpanHostInitialize)
	EndSpan(failed, fmt.Errorf("startup missing"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != SpanHostBuild || spans[0].Status.Code == codes.Error {
		t.Errorf("unexpected first span %+v", spans[0].Status)
	}
	if spans[1].Status.Code != codes.Error || spans[1].Status.Description != "startup missing" {
		t.Errorf("expected error status, got %+v", spans[1].Status)
	}
	if len(spans[1].Events) != 1 {
		t.Errorf("expected the error to be recorded as an event")
	}
}

func TestStartSpanAndSetSpanError(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	SetSpanError(ctx, fmt.Errorf("ignored without a recording span"))
	SetSpanError(context.Background(), nil)
}

func TestNewResource(t *testing.T) {
	res, err := newResource("orders", "1.2.3", "Staging")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "orders" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestServiceHealth(t *testing.T) {
	sh := NewServiceHealth("orders", "1.0.0")
	if sh.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", sh.Status)
	}

	sh.AddComponent(component.Health{Name: "cache", Status: component.StatusDegraded})
	if sh.Status != component.StatusDegraded {
		t.Errorf("expected degraded, got %s", sh.Status)
	}

	sh.AddComponent(component.Health{Name: "db", Status: component.StatusUnhealthy})
	sh.AddComponent(component.Health{Name: "queue", Status: component.StatusDegraded})
	if sh.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy to stick, got %s", sh.Status)
	}
	if len(sh.Components) != 3 {
		t.Errorf("expected 3 components, got %d", len(sh.Components))
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")
	for _, rate := range []float64{1.0, 0.0, 0.5} {
		cfg.SampleRate = rate
		tp, err := InitTracer(context.Background(), cfg)
		if err != nil {
			t.Fatalf("InitTracer(%v) failed: %v", rate, err)
		}
		shutdown(t, tp.Shutdown)
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	shutdown(t, mp.Shutdown)
}

// shutdown bounds exporter flushes; no collector listens during tests.
func shutdown(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = fn(ctx)
}
