package genai

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns the delay before retry attempt n using full
// jitter: random(0, min(maxDelay, initial * 2^(attempt-1))). Full jitter
// spreads concurrent retries better than plain exponential backoff.
func CalculateBackoff(attempt int, initial, maxDelay time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if delay > maxDelay {
		delay = maxDelay
	}
	if delay <= 0 {
		return 0
	}
	return rand.N(delay)
}

// Sleep waits for d, returning early with ctx.Err() on cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithRetry runs fn up to cfg.MaxAttempts times with backoff between
// attempts. Errors classified as anything other than ActionRetry stop the
// loop immediately. Returns the last error, or nil on success.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 0 {
			if err := Sleep(ctx, CalculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if ClassifyError(err) != ActionRetry {
			return err
		}
	}
	return lastErr
}
