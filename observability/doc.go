// Package observability provides OpenTelemetry tracing and metrics for the
// host bootstrap.
//
// Tracing and metric export are set up with OTLP over HTTP:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("orders"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &observability.MeterConfig{Endpoint: "localhost:4318"})
//	defer mp.Shutdown(ctx)
//
// The host records its build through a Telemetry value. A nil provider falls
// back to the otel globals, which are no-ops until a provider is installed:
//
//	tel, err := observability.NewTelemetry(tp, mp)
//	ctx, span := tel.StartSpan(ctx, observability.SpanHostBuild)
//	tel.RecordBuild(ctx, observability.StatusSucceeded, time.Since(start))
//
// Health of the running host is summarized with ServiceHealth.
package observability
