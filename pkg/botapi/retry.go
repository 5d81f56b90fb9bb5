package botapi

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy makes the widget's backoff behavior explicit: a fixed delay
// schedule and a predicate classing errors as transient. Attempts beyond the
// schedule surface the last error to the caller.
type RetryPolicy struct {
	Delays      []time.Duration
	IsRetryable func(error) bool
}

// DefaultRetryPolicy retries twice (2s then 4s) on transport failures and
// 5xx gateway-class statuses. 429 and other 4xx are never retried.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delays:      []time.Duration{2 * time.Second, 4 * time.Second},
		IsRetryable: isTransient,
	}
}

// MaxAttempts is the initial attempt plus one per scheduled delay.
func (p RetryPolicy) MaxAttempts() int {
	return len(p.Delays) + 1
}

// Wait sleeps for the delay preceding the given retry (1-based), honoring
// context cancellation.
func (p RetryPolicy) Wait(ctx context.Context, retry int) error {
	if retry < 1 || retry > len(p.Delays) {
		return nil
	}
	select {
	case <-time.After(p.Delays[retry-1]):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 500, 502, 503, 504:
			return true
		}
		return false
	}
	// Transport-level failure (connection refused, timeout, reset).
	return !errors.Is(err, context.Canceled)
}
