package pool_test

import (
	"encoding/binary"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/framepipe/pool"
)

// One producer, consumers of different speeds. Every delivered payload must
// still carry the sequence it was published with, which fails if a slot is
// recycled while someone holds it.
func TestPipe_ConcurrentProducerConsumers(t *testing.T) {
	t.Parallel()

	const frames = 3000
	p, err := pool.New(3, 2, 64)
	require.NoError(t, err)
	defer p.Close()

	var done atomic.Bool
	var wg sync.WaitGroup
	received := make([]int, 3)
	failures := make(chan string, 3)

	for id := 0; id < 3; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var last uint64
			for {
				if id == 2 {
					if _, err := p.Drain(id); err != nil {
						failures <- err.Error()
						return
					}
				}
				finished := done.Load()
				d, ok, err := p.Receive(id)
				if err != nil {
					failures <- err.Error()
					return
				}
				if !ok {
					if finished {
						return
					}
					runtime.Gosched()
					continue
				}
				if got := binary.LittleEndian.Uint64(d.Payload); got != d.Seq {
					failures <- "payload overwritten while held"
					return
				}
				if d.Seq <= last {
					failures <- "delivery out of order"
					return
				}
				last = d.Seq
				received[id]++
				if id == 1 {
					time.Sleep(50 * time.Microsecond)
				}
				if err := p.Release(d); err != nil {
					failures <- err.Error()
					return
				}
			}
		}(id)
	}

	for seq := uint64(1); seq <= frames; seq++ {
		var h pool.Handle
		var payload []byte
		for {
			var ok bool
			if h, payload, ok = p.Acquire(); ok {
				break
			}
			runtime.Gosched()
		}
		binary.LittleEndian.PutUint64(payload, seq)
		_, err := p.Publish(h, seq)
		require.NoError(t, err)
	}
	done.Store(true)
	wg.Wait()
	close(failures)

	for msg := range failures {
		t.Error(msg)
	}
	assert.Positive(t, received[0])
	assert.Positive(t, received[1])
	assert.LessOrEqual(t, received[1], frames)

	snap := p.Inspect()
	assert.True(t, snap.Conserved())
	assert.Equal(t, snap.Slots, snap.Free, "every slot returns once consumers are idle")
	assert.NoError(t, p.Check())
}
