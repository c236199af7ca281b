package operators

import (
	"context"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/resilience"
)

// Throttle returns a pass-through conduit pacing items through a token
// bucket: rate tokens per second, bursts up to burst. The first burst
// items pass immediately; after that each item waits for a token. If
// the context ends while waiting, the conduit finishes with the context
// error as its result.
func Throttle(ctx context.Context, rate float64, burst int) *conduit.Pipe {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Name:  "throttle",
		Rate:  rate,
		Burst: burst,
	})
	return ThrottleWith(ctx, rl)
}

// ThrottleWith is Throttle with a caller-supplied limiter, so several
// stages can share one bucket.
func ThrottleWith(ctx context.Context, rl *resilience.RateLimiter) *conduit.Pipe {
	return conduit.NewConduit(throttleStep(ctx, rl))
}

func throttleStep(ctx context.Context, rl *resilience.RateLimiter) conduit.Step {
	return &conduit.NeedInput{
		OnValue: func(item any) conduit.Step {
			if err := rl.Wait(ctx); err != nil {
				return &conduit.Done{Result: err}
			}
			return &conduit.HaveOutput{Value: item, Next: func() conduit.Step { return throttleStep(ctx, rl) }}
		},
		OnDone: func(result any) conduit.Step { return &conduit.Done{Result: result} },
	}
}
