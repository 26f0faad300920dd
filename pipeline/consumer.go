// File: pipeline/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Receive side shared by the display and analysis stages: polling or
// blocking receive, release and per-consumer accounting.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/momentics/framepipe/internal/rate"
	"github.com/momentics/framepipe/logger"
	"github.com/momentics/framepipe/pool"
)

type consumer struct {
	pipe  *pool.Pipe
	id    int
	name  string
	retry RetryPolicy
	log   *slog.Logger
	meter *rate.Meter

	frames  atomic.Uint64
	missed  atomic.Uint64
	drained atomic.Uint64
	empty   atomic.Uint64
	errors  atomic.Uint64
	lastSeq atomic.Uint64
}

func newConsumer(p *pool.Pipe, id int, name string, retry RetryPolicy, log *slog.Logger) *consumer {
	return &consumer{
		pipe:  p,
		id:    id,
		name:  name,
		retry: retry,
		log:   log.With(logger.Stage(name), logger.Consumer(id)),
		meter: rate.NewMeter(time.Second),
	}
}

// next returns the oldest queued delivery. After ctx is done it still hands
// out what is queued and then returns ctx.Err().
func (c *consumer) next(ctx context.Context) (pool.Delivery, error) {
	if c.retry.Blocking() {
		d, err := c.pipe.ReceiveWait(ctx, c.id)
		if err != nil {
			return pool.Delivery{}, err
		}
		c.account(d)
		return d, nil
	}
	for attempt := 0; ; attempt++ {
		d, ok, err := c.pipe.Receive(c.id)
		if err != nil {
			return pool.Delivery{}, err
		}
		if ok {
			c.account(d)
			return d, nil
		}
		c.empty.Add(1)
		if !c.retry.Wait(ctx, attempt) {
			break
		}
	}
	// ctx ended mid-wait; the producer may have published since the last poll
	d, ok, err := c.pipe.Receive(c.id)
	if err != nil {
		return pool.Delivery{}, err
	}
	if !ok {
		return pool.Delivery{}, ctx.Err()
	}
	c.account(d)
	return d, nil
}

// account tracks frames and sequence gaps; drained frames count as missed.
func (c *consumer) account(d pool.Delivery) {
	c.frames.Add(1)
	c.meter.Tick()
	last := c.lastSeq.Swap(d.Seq)
	if last != 0 && d.Seq > last+1 {
		c.missed.Add(d.Seq - last - 1)
	}
}

func (c *consumer) release(d pool.Delivery) error {
	if err := c.pipe.Release(d); err != nil {
		return fmt.Errorf("release seq %d: %w", d.Seq, err)
	}
	return nil
}

func (c *consumer) drain() error {
	n, err := c.pipe.Drain(c.id)
	if err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	if n > 0 {
		c.drained.Add(uint64(n))
	}
	return nil
}

func (c *consumer) stats() StageStats {
	return StageStats{
		Name:       c.name,
		Consumer:   c.id,
		Frames:     c.frames.Load(),
		Missed:     c.missed.Load(),
		Drained:    c.drained.Load(),
		EmptyPolls: c.empty.Load(),
		Errors:     c.errors.Load(),
		LastSeq:    c.lastSeq.Load(),
		FPS:        c.meter.Rate(),
	}
}

// stopped maps the cancellation that ends a stage to a clean exit.
func stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil
	}
	return err
}
