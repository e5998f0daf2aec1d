package ai

import (
	"context"
	"strings"
	"time"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 3 * time.Second
)

// isRateLimit classifies the transient errors worth retrying. Anything else
// surfaces once; retry policy for those belongs to the human re-invoking.
func isRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "QUOTA") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// withRetry runs fn with bounded exponential backoff, retrying only
// rate-limit errors: baseDelay, 2x, 4x.
func withRetry[T any](ctx context.Context, attempts int, baseDelay time.Duration, fn func() (T, error)) (T, error) {
	var (
		out     T
		lastErr error
	)
	for i := 0; i < attempts; i++ {
		out, lastErr = fn()
		if lastErr == nil {
			return out, nil
		}
		if !isRateLimit(lastErr) || i == attempts-1 {
			return out, lastErr
		}
		delay := baseDelay << uint(i)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, lastErr
}
