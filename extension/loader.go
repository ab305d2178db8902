package extension

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

const tracerName = "github.com/kbukum/hostkit/extension"

// Loader runs the hosting startups of the modules named by identifiers.
type Loader[B any] struct {
	catalog *Catalog[B]
	log     *logger.Logger
	tracer  trace.Tracer
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	log    *logger.Logger
	tracer trace.Tracer
}

// WithLogger sets the loader's logger.
func WithLogger(l *logger.Logger) LoaderOption {
	return func(o *loaderOptions) { o.log = l }
}

// WithTracer sets the tracer used for one span per identifier.
func WithTracer(t trace.Tracer) LoaderOption {
	return func(o *loaderOptions) { o.tracer = t }
}

// NewLoader creates a loader over catalog. A nil catalog knows no modules.
func NewLoader[B any](catalog *Catalog[B], opts ...LoaderOption) *Loader[B] {
	o := loaderOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if catalog == nil {
		catalog = NewCatalog[B]()
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return &Loader[B]{catalog: catalog, log: o.log, tracer: o.tracer}
}

// Load attempts every identifier in order and reports one outcome each.
// Extensions may call back into builder; whatever a failing extension
// changed before it failed is kept.
func (l *Loader[B]) Load(ctx context.Context, identifiers []string, builder B) *Report {
	report := &Report{Outcomes: make([]Outcome, 0, len(identifiers))}
	for _, id := range identifiers {
		report.Outcomes = append(report.Outcomes, l.loadOne(ctx, id, builder))
	}
	return report
}

func (l *Loader[B]) loadOne(ctx context.Context, id string, builder B) Outcome {
	_, span := l.tracer.Start(ctx, "hostkit.extension.load",
		trace.WithAttributes(attribute.String("hostkit.extension.identifier", id)))
	defer span.End()

	start := time.Now()
	outcome := Outcome{Identifier: id}
	err := l.run(id, builder, &outcome)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Err = errors.ExtensionFailed(id, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.log.Error("Hosting startup failed", logger.MergeWithError(
			logger.Fields(logger.FieldExtension, id), err))
		return outcome
	}

	span.SetAttributes(attribute.Int("hostkit.extension.count", len(outcome.Extensions)))
	l.log.Debug("Hosting startup loaded", logger.Fields(
		logger.FieldExtension, id,
		"count", len(outcome.Extensions),
		logger.FieldDuration, outcome.Duration.Milliseconds(),
	))
	return outcome
}

func (l *Loader[B]) run(id string, builder B, outcome *Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(r)
		}
	}()

	module, ok := l.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("extension module %q is not registered", id)
	}
	for _, decl := range module.Extensions {
		ext, err := decl.New()
		if err != nil {
			return fmt.Errorf("constructing %s: %w", decl.Name, err)
		}
		if ext == nil {
			return fmt.Errorf("constructing %s: constructor returned nil", decl.Name)
		}
		if err := ext.Configure(builder); err != nil {
			return fmt.Errorf("configuring %s: %w", decl.Name, err)
		}
		outcome.Extensions = append(outcome.Extensions, decl.Name)
	}
	return nil
}
