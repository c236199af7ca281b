package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket limiter.
type RateLimiterConfig struct {
	// Name identifies the limiter in logs and the OnLimit callback.
	Name string
	// Rate is tokens added per second.
	Rate float64
	// Burst caps stored tokens, so it is the largest instantaneous spike.
	Burst int
	// OnLimit fires when a non-blocking acquisition is refused.
	OnLimit func(name string)
}

// RateLimiter is a token bucket. Throttle stages pace item flow through
// one, and adapters can share a limiter to cap the aggregate request rate
// against an external service.
type RateLimiter struct {
	name    string
	rate    float64
	burst   float64
	onLimit func(string)

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter builds a limiter with a full bucket. Rate defaults to 10/s
// and Burst to one second of rate when unset.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
	}

	return &RateLimiter{
		name:    config.Name,
		rate:    config.Rate,
		burst:   float64(config.Burst),
		onLimit: config.OnLimit,
		tokens:  float64(config.Burst),
		last:    time.Now(),
	}
}

// Allow takes one token without blocking, reporting whether it got one.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN takes n tokens without blocking. On refusal it fires OnLimit and
// leaves the bucket untouched.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}

	if rl.onLimit != nil {
		rl.onLimit(rl.name)
	}

	return false
}

// Wait blocks until one token is available or ctx ends.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are available or ctx ends. The tokens are
// reserved up front, so concurrent waiters queue rather than race.
func (rl *RateLimiter) WaitN(ctx context.Context, n int) error {
	if rl.AllowN(n) {
		return nil
	}

	wait := rl.reserveN(n)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// refill credits tokens for the time since the last refill, capped at burst.
// Callers hold mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.last).Seconds()
	rl.last = now

	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.burst {
		rl.tokens = rl.burst
	}
}

// reserveN debits n tokens, driving the balance negative if needed, and
// returns how long the caller must wait for the debt to refill.
func (rl *RateLimiter) reserveN(n int) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return 0
	}

	needed := float64(n) - rl.tokens
	rl.tokens -= float64(n)

	return time.Duration(needed / rl.rate * float64(time.Second))
}

// Tokens reports the current balance after refill. Mostly for tests and
// gauges.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// Rate returns tokens per second.
func (rl *RateLimiter) Rate() float64 {
	return rl.rate
}

// Burst returns the bucket capacity.
func (rl *RateLimiter) Burst() int {
	return int(rl.burst)
}
