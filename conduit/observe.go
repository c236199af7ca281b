package conduit

import (
	"context"
	"time"

	"github.com/flumehq/flume/logger"
	"github.com/flumehq/flume/observability"
)

// stepHooks observes a step graph as it unfolds. Each hook fires once
// per node along the executed path; cleanup may replace the registered
// action with a wrapped one.
type stepHooks struct {
	output  func(value any)
	done    func(result any)
	cleanup func(action func()) func()
}

// instrument rewraps a step graph so hooks fire as nodes are produced.
// The wrapped graph behaves identically to the original.
func instrument(s Step, h *stepHooks) Step {
	switch cur := s.(type) {
	case *NeedInput:
		return &NeedInput{
			OnValue: func(item any) Step { return instrument(cur.OnValue(item), h) },
			OnDone:  func(result any) Step { return instrument(cur.OnDone(result), h) },
		}
	case *HaveOutput:
		if h.output != nil {
			h.output(cur.Value)
		}
		return &HaveOutput{Value: cur.Value, Next: func() Step { return instrument(cur.Next(), h) }}
	case *RegisterCleanup:
		action := cur.Action
		if h.cleanup != nil {
			action = h.cleanup(action)
		}
		return &RegisterCleanup{Action: action, Next: func() Step { return instrument(cur.Next(), h) }}
	case *Done:
		if h.done != nil {
			h.done(cur.Result)
		}
		return cur
	default:
		return s
	}
}

// rewrap consumes a pipe and returns a same-role pipe whose step graph
// is passed through transform at force time, so decoration keeps the
// original's deferred side effects deferred.
func rewrap(p *Pipe, transform func(Step) Step) *Pipe {
	if p.role == RoleCompleted || p.consumed {
		panic("conduit: cannot decorate a " + describe(p) + " pipe")
	}
	inner := p
	p.consumed = true
	return &Pipe{role: p.role, thunk: func() Step { return transform(inner.force()) }}
}

// WithLogging consumes a pipe and returns one that behaves identically
// while debug-logging produced items, cleanup registration and
// execution, and completion. The stage name tags every entry.
func WithLogging(p *Pipe, log *logger.Logger, stage string) *Pipe {
	slog := log.WithFields(map[string]interface{}{logger.FieldStage: stage})
	return rewrap(p, func(s Step) Step {
		items := 0
		return instrument(s, &stepHooks{
			output: func(any) {
				items++
				slog.Debug("stage produced item", logger.Fields(logger.FieldItems, items))
			},
			cleanup: func(action func()) func() {
				slog.Debug("stage registered cleanup")
				return func() {
					action()
					slog.Debug("stage cleanup ran")
				}
			},
			done: func(result any) {
				fields := logger.Fields(logger.FieldItems, items, logger.FieldStatus, "ok")
				if err := ResultError(result); err != nil {
					fields[logger.FieldStatus] = "error"
					fields[logger.FieldError] = err.Error()
				}
				slog.Debug("stage finished", fields)
			},
		})
	})
}

// WithMetrics consumes a pipe and returns one that records one item
// count per produced value, and an operation with duration and status
// when the stage finishes. Duration is measured from the stage's first
// force to its completion.
func WithMetrics(ctx context.Context, p *Pipe, m *observability.Metrics, stage string) *Pipe {
	return rewrap(p, func(s Step) Step {
		start := time.Now()
		return instrument(s, &stepHooks{
			output: func(any) { m.RecordItems(ctx, stage, 1) },
			done: func(result any) {
				status := "ok"
				if err := ResultError(result); err != nil {
					status = "error"
					m.RecordError(ctx, "result", stage)
				}
				m.RecordOperation(ctx, stage, "pipe.run", status, time.Since(start))
			},
		})
	})
}

// WithTracing consumes a pipe and returns one that opens a span at the
// stage's first force and ends it through a prepended cleanup
// registration, so the span closes when the pipeline run finishes even
// if the stage itself is never drained. The span carries the number of
// items the stage produced and any error-valued result.
func WithTracing(ctx context.Context, p *Pipe, stage string) *Pipe {
	return rewrap(p, func(s Step) Step {
		sctx, span := observability.StartSpan(ctx, "pipe."+stage)
		items := 0
		inner := instrument(s, &stepHooks{
			output: func(any) { items++ },
			done: func(result any) {
				if err := ResultError(result); err != nil {
					observability.SetSpanError(sctx, err)
				}
			},
		})
		return &RegisterCleanup{
			Action: func() {
				observability.SetSpanAttribute(sctx, observability.AttrItems, items)
				span.End()
			},
			Next: func() Step { return inner },
		}
	})
}
