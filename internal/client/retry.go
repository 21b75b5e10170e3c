package client

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy drives DoWithRetry. MaxRetries counts retries, not attempts:
// a policy with MaxRetries 3 issues at most 4 calls.
type RetryPolicy struct {
	MaxRetries  int
	Delay       func(attempt int) time.Duration
	ShouldRetry func(resp *http.Response) bool
}

// LinearBackoff scales the delay with the attempt number: base before the
// first retry, 2×base before the second, and so on.
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Retry401 is the post-OAuth session-propagation policy: the identity cookie
// can take a moment to become visible to API routes, so a 401 right after
// the redirect is retried a bounded number of times. Any other status stops
// the loop immediately.
func Retry401(base time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		Delay:      LinearBackoff(base),
		ShouldRetry: func(resp *http.Response) bool {
			return resp.StatusCode == http.StatusUnauthorized
		},
	}
}

// DoWithRetry runs call until the policy gives up. Transport errors are
// returned as-is without retrying; only responses matching ShouldRetry are
// retried. The last response is returned whatever its status.
func DoWithRetry(ctx context.Context, policy RetryPolicy, call func() (*http.Response, error)) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 1; ; attempt++ {
		resp, err = call()
		if err != nil {
			return nil, err
		}
		if attempt > policy.MaxRetries || !policy.ShouldRetry(resp) {
			return resp, nil
		}

		resp.Body.Close()

		timer := time.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
