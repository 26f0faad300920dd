// File: pipeline/retry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Retry pacing for stages polling an exhausted pipe.

package pipeline

import (
	"context"
	"time"
)

// RetryPolicy paces polling on an empty free list or delivery queue. The
// delay doubles per attempt up to Max; a Max not above Delay keeps it fixed.
// A zero Delay means block on the pipe instead of polling.
type RetryPolicy struct {
	Delay time.Duration
	Max   time.Duration
}

// Blocking reports whether stages should wait on the pipe rather than poll.
func (r RetryPolicy) Blocking() bool { return r.Delay <= 0 }

// Backoff returns the delay before retry number attempt (0-based).
func (r RetryPolicy) Backoff(attempt int) time.Duration {
	d := r.Delay
	if r.Max <= d {
		return d
	}
	for i := 0; i < attempt && d < r.Max; i++ {
		d *= 2
	}
	return min(d, r.Max)
}

// Wait sleeps for Backoff(attempt). It returns false as soon as ctx is done.
func (r RetryPolicy) Wait(ctx context.Context, attempt int) bool {
	return sleep(ctx, r.Backoff(attempt))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
