// Package resilience provides retry with exponential backoff and token
// bucket rate limiting for pipeline stages that touch external systems.
//
// Adapters retry transient write failures:
//
//	cfg := resilience.DefaultRetryConfig()
//	err := resilience.RetryFunc(ctx, cfg, func() error {
//	    return writer.WriteMessages(ctx, msg)
//	})
//
// DefaultRetryIf honors the Retryable flag on toolkit errors and treats
// raw driver errors as transient, so adapters can hand driver errors to
// Retry unchanged.
//
// A RateLimiter paces item flow through a stage:
//
//	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 50, Burst: 10})
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package resilience
