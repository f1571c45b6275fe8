// Package observability wires OpenTelemetry tracing and metrics for
// callbridge.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("callbridge"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPCall)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("callbridge"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewCallMetrics(observability.Meter("callbridge"))
//	m.RecordStart(ctx, "GET")
//	m.RecordEnd(ctx, "GET", observability.OutcomeResponse, 200, elapsed)
//
// Without Init* the global no-op providers are used and nothing is exported.
package observability
