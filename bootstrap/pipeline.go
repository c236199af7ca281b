package bootstrap

import (
	"context"

	"github.com/google/uuid"

	"github.com/flumehq/flume/assemble"
	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/observability"
)

// RunPipeline assembles a definition against the registry, instruments
// every stage, runs it, and extracts the result. Each run is tagged
// with a fresh run id in logs, spans and metrics. An error-valued
// result comes back as the returned error. The definition must be
// resolved: pipeline references are an assembly error here.
func (a *App[C]) RunPipeline(ctx context.Context, reg *assemble.Registry, def *assemble.Definition) (any, error) {
	runID := uuid.NewString()
	log := a.Logger.WithPipeline(def.Name, runID)

	rc := observability.NewRunContext(def.Name, runID, a.Metrics)
	rctx := observability.WithRunContext(ctx, rc)
	rctx, span := rc.StartRunSpan(rctx)

	log.Info("Pipeline run starting", logger.Fields("stages", len(def.Stages)))

	pipe, err := reg.Build(def, assemble.WithDecorator(func(stage string, p *conduit.Pipe) *conduit.Pipe {
		p = conduit.WithLogging(p, log, stage)
		if a.Metrics != nil {
			p = conduit.WithMetrics(rctx, p, a.Metrics, stage)
		}
		if a.tracerProvider != nil {
			p = conduit.WithTracing(rctx, p, stage)
		}
		return p
	}))
	if err != nil {
		rc.EndRun(rctx, span, "error", err)
		log.Error("Pipeline assembly failed", logger.Fields(logger.FieldError, err.Error()))
		return nil, err
	}

	result, err := pipe.Result()
	if err != nil {
		rc.EndRun(rctx, span, "error", err)
		log.Error("Pipeline did not run to completion", logger.Fields(logger.FieldError, err.Error()))
		return nil, err
	}

	duration := rc.Duration()
	if rerr := conduit.ResultError(result); rerr != nil {
		rc.EndRun(rctx, span, "error", rerr)
		a.Summary.TrackRun(def.Name, runID, duration, rerr)
		log.Error("Pipeline run failed", logger.Fields(
			logger.FieldStatus, "error",
			logger.FieldDuration, duration.Milliseconds(),
			logger.FieldError, rerr.Error(),
		))
		return nil, rerr
	}

	rc.EndRun(rctx, span, "ok", nil)
	a.Summary.TrackRun(def.Name, runID, duration, nil)
	log.Info("Pipeline run complete", logger.Fields(
		logger.FieldStatus, "ok",
		logger.FieldDuration, duration.Milliseconds(),
	))
	return result, nil
}
