// Package observability wires OpenTelemetry tracing and metrics into
// pipeline runs and stages.
//
// Tracing:
//
//	cfg := observability.DefaultTracerConfig("ingest")
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "pipeline.run")
//	defer span.End()
//
// Metrics:
//
//	mcfg := observability.DefaultMeterConfig("ingest")
//	mp, err := observability.InitMeter(ctx, &mcfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("ingest"))
//	metrics.RecordOperation(ctx, "ingest", "pipe.run", "ok", duration)
//
// Run tracking:
//
//	rc := observability.NewRunContext("ingest", runID, metrics)
//	ctx, span := rc.StartRunSpan(ctx)
//	// ... run the pipeline ...
//	rc.EndRun(ctx, span, "ok", nil)
package observability
