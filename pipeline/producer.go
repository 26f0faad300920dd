// File: pipeline/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer stage: acquire, capture, publish with an absolute sequence.

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/momentics/framepipe/internal/rate"
	"github.com/momentics/framepipe/logger"
	"github.com/momentics/framepipe/pool"
)

// Producer captures frames into the pipe. Sequence numbers start at 1 and
// grow by one per published frame, whether or not anyone accepted it.
type Producer struct {
	pipe  *pool.Pipe
	src   Source
	retry RetryPolicy
	max   uint64
	log   *slog.Logger
	meter *rate.Meter

	published     atomic.Uint64
	undelivered   atomic.Uint64
	partial       atomic.Uint64
	captureErrors atomic.Uint64
	stalls        atomic.Uint64
	lastSeq       atomic.Uint64
}

func newProducer(p *pool.Pipe, src Source, retry RetryPolicy, maxFrames uint64, log *slog.Logger) *Producer {
	return &Producer{
		pipe:  p,
		src:   src,
		retry: retry,
		max:   maxFrames,
		log:   log.With(logger.Stage("producer")),
		meter: rate.NewMeter(time.Second),
	}
}

// Run produces until ctx is done, the source returns io.EOF or max frames
// were published. A slot taken for a failed or interrupted capture is
// abandoned, so nothing stays acquired on return.
func (p *Producer) Run(ctx context.Context) error {
	seq := uint64(1)
	for p.max == 0 || seq <= p.max {
		if ctx.Err() != nil {
			return nil
		}
		h, payload, err := p.acquire(ctx)
		if err != nil {
			return stopped(ctx, err)
		}

		if err := p.src.Capture(ctx, payload); err != nil {
			if aerr := p.pipe.Abandon(h); aerr != nil {
				return aerr
			}
			switch {
			case errors.Is(err, io.EOF):
				p.log.Info("source exhausted", logger.Seq(seq-1))
				return nil
			case ctx.Err() != nil:
				return nil
			}
			p.captureErrors.Add(1)
			p.log.Warn("capture failed", logger.Seq(seq), logger.Error(err))
			if !p.retry.Wait(ctx, 0) {
				return nil
			}
			continue
		}

		n, err := p.pipe.Publish(h, seq)
		if err != nil {
			return err
		}
		p.published.Add(1)
		p.lastSeq.Store(seq)
		p.meter.Tick()
		switch {
		case n == 0:
			p.undelivered.Add(1)
		case n < p.pipe.Consumers():
			p.partial.Add(1)
		}
		seq++
	}
	p.log.Info("frame limit reached", logger.Count("frames", p.max))
	return nil
}

func (p *Producer) acquire(ctx context.Context) (pool.Handle, []byte, error) {
	if p.retry.Blocking() {
		return p.pipe.AcquireWait(ctx)
	}
	for attempt := 0; ; attempt++ {
		if h, payload, ok := p.pipe.Acquire(); ok {
			return h, payload, nil
		}
		p.stalls.Add(1)
		if !p.retry.Wait(ctx, attempt) {
			return pool.Handle{}, nil, ctx.Err()
		}
	}
}

// Stats returns the producer counters.
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		Published:     p.published.Load(),
		Undelivered:   p.undelivered.Load(),
		Partial:       p.partial.Load(),
		CaptureErrors: p.captureErrors.Load(),
		Stalls:        p.stalls.Load(),
		LastSeq:       p.lastSeq.Load(),
		FPS:           p.meter.Rate(),
	}
}
