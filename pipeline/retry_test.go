package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/framepipe/pipeline"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	t.Parallel()

	fixed := pipeline.RetryPolicy{Delay: time.Millisecond}
	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, time.Millisecond, fixed.Backoff(attempt))
	}

	growing := pipeline.RetryPolicy{Delay: time.Millisecond, Max: 5 * time.Millisecond}
	assert.Equal(t, time.Millisecond, growing.Backoff(0))
	assert.Equal(t, 2*time.Millisecond, growing.Backoff(1))
	assert.Equal(t, 4*time.Millisecond, growing.Backoff(2))
	assert.Equal(t, 5*time.Millisecond, growing.Backoff(3))
	assert.Equal(t, 5*time.Millisecond, growing.Backoff(50))

	assert.False(t, fixed.Blocking())
	assert.True(t, pipeline.RetryPolicy{}.Blocking())
}

func TestRetryPolicy_WaitStopsOnCancel(t *testing.T) {
	t.Parallel()

	r := pipeline.RetryPolicy{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.False(t, r.Wait(ctx, 0))
	assert.Less(t, time.Since(start), time.Second)

	assert.True(t, pipeline.RetryPolicy{Delay: time.Microsecond}.Wait(context.Background(), 0))
}
