package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunContext holds observability context for one pipeline run.
type RunContext struct {
	Pipeline  string
	RunID     string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRunContext creates a context record for a pipeline run. A nil
// metrics leaves spans on but skips metric recording.
func NewRunContext(pipeline, runID string, metrics *Metrics) *RunContext {
	return &RunContext{
		Pipeline:  pipeline,
		RunID:     runID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// runContextKey is the context key for RunContext.
type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartRunSpan starts a traced span for the pipeline run.
func (rc *RunContext) StartRunSpan(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanPipelineRun)
	span.SetAttributes(
		attribute.String(AttrPipelineName, rc.Pipeline),
		attribute.String(AttrRunID, rc.RunID),
	)
	return ctx, span
}

// EndRun ends the span and records run metrics.
func (rc *RunContext) EndRun(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(rc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordOperation(ctx, rc.Pipeline, SpanPipelineRun, status, duration)
		if err != nil {
			rc.Metrics.RecordError(ctx, "run", rc.Pipeline)
		}
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
