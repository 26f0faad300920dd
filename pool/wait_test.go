package pool_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/pool"
)

func TestAcquireWait_WakesOnRelease(t *testing.T) {
	t.Parallel()

	p := newPipe(t, 1, 1)
	require.Equal(t, 1, publish(t, p, 1))

	got := make(chan error, 1)
	go func() {
		_, _, err := p.AcquireWait(context.Background())
		got <- err
	}()

	select {
	case err := <-got:
		t.Fatalf("AcquireWait returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	receiveRelease(t, p, 0)
	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AcquireWait not woken by release")
	}
}

func TestReceiveWait_WakesOnPublish(t *testing.T) {
	t.Parallel()

	p := newPipe(t, 2, 2)
	got := make(chan pool.Delivery, 1)
	go func() {
		d, err := p.ReceiveWait(context.Background(), 1)
		if err == nil {
			got <- d
		}
		close(got)
	}()

	time.Sleep(10 * time.Millisecond)
	publish(t, p, 42)

	select {
	case d, ok := <-got:
		require.True(t, ok)
		assert.Equal(t, uint64(42), d.Seq)
		assert.NoError(t, p.Release(d))
	case <-time.After(time.Second):
		t.Fatal("ReceiveWait not woken by publish")
	}
}

func TestWait_ContextCancel(t *testing.T) {
	t.Parallel()

	p := newPipe(t, 1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.ReceiveWait(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	publish(t, p, 1)
	_, _, err = p.AcquireWait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	d, err := p.ReceiveWait(ctx, 0)
	require.NoError(t, err, "queued delivery is returned even after cancellation")
	assert.Equal(t, uint64(1), d.Seq)
}

func TestWait_CloseWakesWaiters(t *testing.T) {
	t.Parallel()

	p := newPipe(t, 1, 1)
	errs := make(chan error, 2)
	go func() {
		_, err := p.ReceiveWait(context.Background(), 0)
		errs <- err
	}()
	h, _, ok := p.Acquire()
	require.True(t, ok)
	go func() {
		_, _, err := p.AcquireWait(context.Background())
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Abandon(h))
	// the acquire waiter takes the abandoned slot; only the receiver is left
	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("AcquireWait not woken by abandon")
	}

	require.NoError(t, p.Close())
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, api.ErrPipeClosed)
	case <-time.After(time.Second):
		t.Fatal("ReceiveWait not woken by close")
	}
}
