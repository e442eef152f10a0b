package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries bounds sink write attempts.
const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
	if base > 10*time.Second {
		base = 10 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// withRetry runs fn until it succeeds, returns a non-retryable error, or
// MaxRetries attempts are spent.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := range MaxRetries {
		if err = fn(); !IsRetryable(err) {
			return err
		}
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
