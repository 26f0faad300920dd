package pool_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/pool"
)

type countingAllocator struct {
	allocs, frees atomic.Int32
	short         int
}

func (c *countingAllocator) Alloc(size int) ([]byte, error) {
	c.allocs.Add(1)
	return make([]byte, size-c.short), nil
}

func (c *countingAllocator) Free([]byte) error {
	c.frees.Add(1)
	return nil
}

var errNoMemory = errors.New("no memory")

type failingAllocator struct{ frees int }

func (failingAllocator) Alloc(int) ([]byte, error) { return nil, errNoMemory }
func (f *failingAllocator) Free([]byte) error      { f.frees++; return nil }

func TestClose_FreesArenaOnce(t *testing.T) {
	t.Parallel()

	alloc := &countingAllocator{}
	p, err := pool.New(2, 2, 64, pool.WithAllocator(alloc))
	require.NoError(t, err)
	assert.Equal(t, int32(1), alloc.allocs.Load())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, int32(1), alloc.frees.Load())
	assert.True(t, p.Inspect().Closed)
}

func TestNew_AllocatorFailure(t *testing.T) {
	t.Parallel()

	alloc := &failingAllocator{}
	p, err := pool.New(2, 2, 64, pool.WithAllocator(alloc))
	assert.Nil(t, p)
	assert.ErrorIs(t, err, errNoMemory)
	assert.Zero(t, alloc.frees)
}

func TestNew_ShortRegionIsReturned(t *testing.T) {
	t.Parallel()

	alloc := &countingAllocator{short: 1}
	p, err := pool.New(2, 2, 64, pool.WithAllocator(alloc))
	assert.Nil(t, p)
	assert.ErrorIs(t, err, api.ErrResourceExhausted)
	assert.Equal(t, int32(1), alloc.frees.Load())
}

func TestPipe_PayloadsDoNotOverlap(t *testing.T) {
	t.Parallel()

	p, err := pool.New(2, 2, 32)
	require.NoError(t, err)
	defer p.Close()

	var payloads [][]byte
	for {
		_, payload, ok := p.Acquire()
		if !ok {
			break
		}
		require.Len(t, payload, 32)
		require.Equal(t, 32, cap(payload))
		payloads = append(payloads, payload)
	}
	require.Len(t, payloads, 4)

	for i, b := range payloads {
		for j := range b {
			b[j] = byte(i + 1)
		}
	}
	for i, b := range payloads {
		for _, v := range b {
			require.Equal(t, byte(i+1), v)
		}
	}
}

func TestPipe_OperationsAfterClose(t *testing.T) {
	t.Parallel()

	p := newPipe(t, 2, 2)
	h, _, ok := p.Acquire()
	require.True(t, ok)
	require.NoError(t, p.Close())

	_, _, ok = p.Acquire()
	assert.False(t, ok)
	_, err := p.Publish(h, 1)
	assert.ErrorIs(t, err, api.ErrPipeClosed)
	assert.ErrorIs(t, p.Abandon(h), api.ErrPipeClosed)
	_, _, err = p.Receive(0)
	assert.ErrorIs(t, err, api.ErrPipeClosed)
	_, err = p.Drain(0)
	assert.ErrorIs(t, err, api.ErrPipeClosed)
	assert.False(t, api.IsInvalidUsage(err))
	assert.NoError(t, p.Check())
}

func TestAllocators(t *testing.T) {
	t.Parallel()

	for name, alloc := range map[string]pool.Allocator{
		"heap":    pool.HeapAllocator{},
		"default": pool.DefaultAllocator(),
	} {
		t.Run(name, func(t *testing.T) {
			region, err := alloc.Alloc(4096)
			require.NoError(t, err)
			require.Len(t, region, 4096)
			region[0], region[4095] = 1, 2
			assert.NoError(t, alloc.Free(region))

			_, err = alloc.Alloc(0)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
		})
	}
}
