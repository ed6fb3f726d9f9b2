package ai

import (
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy decides how often and how long the client waits before
// re-sending a request that failed with a retryable status.
type RetryPolicy struct {
	MaxAttempts int
	Retryable   func(status int) bool
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Retryable:   IsRetryableStatus,
		Backoff:     LinearBackoff(time.Second),
	}
}

// IsRetryableStatus is true for rate limiting and server errors.
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func LinearBackoff(unit time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * unit
	}
}

func (p RetryPolicy) shouldRetry(status int) bool {
	if p.Retryable == nil {
		return IsRetryableStatus(status)
	}
	return p.Retryable(status)
}

// backoff is single-use: it counts attempts for one Query call.
func (p RetryPolicy) backoff() retry.Backoff {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	wait := p.Backoff
	if wait == nil {
		wait = LinearBackoff(time.Second)
	}

	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if attempt >= maxAttempts {
			return 0, true
		}
		return wait(attempt), false
	})
}
