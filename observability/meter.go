package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/hostkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the host environment name.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.0",
		Environment:    "Development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricBuildTotal      = "host.build.total"
	MetricBuildDuration   = "host.build.duration"
	MetricExtensionsTotal = "host.extensions.total"
)

// Status attribute values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCaptured  = "captured"
)

// Metrics holds the host build instruments.
type Metrics struct {
	buildTotal      metric.Int64Counter
	buildDuration   metric.Float64Histogram
	extensionsTotal metric.Int64Counter
}

// NewMetrics creates the host instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	buildTotal, err := meter.Int64Counter(MetricBuildTotal,
		metric.WithDescription("Host builds by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBuildTotal, err)
	}

	buildDuration, err := meter.Float64Histogram(MetricBuildDuration,
		metric.WithDescription("Duration of host builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBuildDuration, err)
	}

	extensionsTotal, err := meter.Int64Counter(MetricExtensionsTotal,
		metric.WithDescription("Hosting startup extensions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricExtensionsTotal, err)
	}

	return &Metrics{
		buildTotal:      buildTotal,
		buildDuration:   buildDuration,
		extensionsTotal: extensionsTotal,
	}, nil
}

// RecordBuild records one build with its outcome status.
func (m *Metrics) RecordBuild(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(AttrStatus.String(status))
	m.buildTotal.Add(ctx, 1, attrs)
	m.buildDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordExtensions records loaded and failed extension counts.
func (m *Metrics) RecordExtensions(ctx context.Context, succeeded, failed int) {
	if succeeded > 0 {
		m.extensionsTotal.Add(ctx, int64(succeeded), metric.WithAttributes(AttrStatus.String(StatusSucceeded)))
	}
	if failed > 0 {
		m.extensionsTotal.Add(ctx, int64(failed), metric.WithAttributes(AttrStatus.String(StatusFailed)))
	}
}
