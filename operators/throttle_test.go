package operators

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/flumehq/flume/conduit"
	"github.com/flumehq/flume/resilience"
)

func TestThrottle_PassesItemsThrough(t *testing.T) {
	got := runPipe(t, FromSlice([]any{1, 2, 3}), Throttle(context.Background(), 1000, 10), Collect())
	want := []any{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestThrottle_PacesItems(t *testing.T) {
	start := time.Now()
	got := runPipe(t, FromSlice([]any{1, 2, 3}), Throttle(context.Background(), 100, 1), Collect())
	elapsed := time.Since(start)

	if !reflect.DeepEqual(got, []any{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	// The burst covers the first item; the other two wait ~10ms each.
	if elapsed < 15*time.Millisecond {
		t.Errorf("expected at least 15ms of pacing, got %v", elapsed)
	}
}

func TestThrottle_ForwardsUpstreamResult(t *testing.T) {
	src := conduit.NewSource(&conduit.Done{Result: 42})
	got := runPipe(t, src, Throttle(context.Background(), 1000, 10), resultSink())
	if got != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestThrottle_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Rate 0.5/s: the second item would wait two seconds.
	got := runPipe(t, FromSlice([]any{1, 2}), Throttle(ctx, 0.5, 1), resultSink())
	if err := conduit.ResultError(got); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded result, got %v", got)
	}
}

func TestThrottleWith_SharedLimiter(t *testing.T) {
	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Name: "shared", Rate: 1, Burst: 4})

	got := runPipe(t, FromSlice([]any{"a", "b"}), ThrottleWith(context.Background(), rl), Collect())
	if !reflect.DeepEqual(got, []any{"a", "b"}) {
		t.Errorf("got %v, want [a b]", got)
	}
	if tokens := rl.Tokens(); tokens > 3 {
		t.Errorf("expected tokens consumed from the shared bucket, got %f", tokens)
	}
}
