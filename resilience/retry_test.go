package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/flumehq/flume/errors"
)

// fastRetry keeps backoff around a millisecond so tests spend no real
// time sleeping.
func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetryFirstTrySucceeds(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		calls++
		return "connected", nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if got != "connected" {
		t.Errorf("Retry() = %q, want %q", got, "connected")
	}
	if calls != 1 {
		t.Errorf("function ran %d times, want 1", calls)
	}
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("broker unavailable")
		}
		return 128, nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if got != 128 {
		t.Errorf("Retry() = %d, want 128", got)
	}
	if calls != 3 {
		t.Errorf("function ran %d times, want 3", calls)
	}
}

func TestRetryReturnsLastErrorWhenExhausted(t *testing.T) {
	errDown := errors.New("connection refused")
	calls := 0
	_, err := Retry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		return "", errDown
	})
	if !errors.Is(err, errDown) {
		t.Errorf("Retry() error = %v, want %v", err, errDown)
	}
	if calls != 3 {
		t.Errorf("function ran %d times, want 3", calls)
	}
}

func TestRetryStopsWhenContextExpires(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: 100 * time.Millisecond,
		BackoffFactor:  2.0,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		calls++
		return "", errors.New("broker unavailable")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Retry() error = %v, want context.DeadlineExceeded", err)
	}
	// The deadline lands inside the first backoff sleep, long before
	// the attempts run out.
	if calls >= 10 {
		t.Errorf("function ran %d times, want fewer than 10", calls)
	}
}

func TestRetryIfFilter(t *testing.T) {
	errTransient := errors.New("timed out")
	errFatal := errors.New("topic does not exist")

	cfg := fastRetry(3)
	cfg.RetryIf = func(err error) bool { return errors.Is(err, errTransient) }

	calls := 0
	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", errTransient
	})
	if calls != 3 {
		t.Errorf("transient error: function ran %d times, want 3", calls)
	}

	calls = 0
	_, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", errFatal
	})
	if calls != 1 {
		t.Errorf("fatal error: function ran %d times, want 1", calls)
	}
	if !errors.Is(err, errFatal) {
		t.Errorf("Retry() error = %v, want %v", err, errFatal)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"raw error", errors.New("connection reset"), true},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"retryable code", apperrors.ConnectionFailed("redis"), true},
		{"non-retryable code", apperrors.MissingField("topic"), false},
		{"wrapped non-retryable", fmt.Errorf("write: %w", apperrors.MissingField("topic")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryStopsOnNonRetryableCode(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		return "", apperrors.InvalidInput("params", "negative size")
	})
	if calls != 1 {
		t.Errorf("function ran %d times, want 1", calls)
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
		t.Errorf("CodeOf(err) = %v, want %v", apperrors.CodeOf(err), apperrors.ErrCodeInvalidInput)
	}
}

func TestRetryReportsEachRetry(t *testing.T) {
	var mu sync.Mutex
	var attempts []int

	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		mu.Lock()
		attempts = append(attempts, attempt)
		mu.Unlock()
	}

	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		return "", errors.New("broker unavailable")
	})

	mu.Lock()
	defer mu.Unlock()
	// The first try is not a retry, so three attempts report twice.
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry saw attempts %v, want [1 2]", attempts)
	}
}

func TestRetryFunc(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), fastRetry(3), func() error {
		calls++
		if calls < 2 {
			return errors.New("broker unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RetryFunc() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("function ran %d times, want 2", calls)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), 3, func() (int64, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("broker unavailable")
		}
		return 1042, nil
	})
	if err != nil {
		t.Fatalf("RetryWithBackoff() error = %v", err)
	}
	if got != 1042 {
		t.Errorf("RetryWithBackoff() = %d, want 1042", got)
	}
}

func TestCalculateBackoff(t *testing.T) {
	// Zero jitter keeps the schedule deterministic.
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 100 * time.Millisecond},
		{attempt: 2, want: 200 * time.Millisecond},
		{attempt: 3, want: 400 * time.Millisecond},
		{attempt: 4, want: 800 * time.Millisecond},
		{attempt: 5, want: time.Second},
		{attempt: 6, want: time.Second},
	}

	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, cfg); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
