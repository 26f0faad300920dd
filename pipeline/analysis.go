// File: pipeline/analysis.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Analysis stage: flush the backlog, take the next fresh frame, analyze it
// in place, release it and wait out the cadence.

package pipeline

import (
	"context"
	"time"

	"github.com/momentics/framepipe/logger"
)

// Analysis runs an Analyzer on the freshest frames at most once per interval.
type Analysis struct {
	c        *consumer
	analyzer Analyzer
	overlays *Overlays
	interval time.Duration
	width    int
	height   int
}

func newAnalysis(c *consumer, a Analyzer, overlays *Overlays, interval time.Duration, width, height int) *Analysis {
	return &Analysis{c: c, analyzer: a, overlays: overlays, interval: interval, width: width, height: height}
}

// Run loops until ctx is done. Analyzer errors are counted and logged. The
// backlog left when ctx ends is dropped so no slot stays referenced.
func (a *Analysis) Run(ctx context.Context) (err error) {
	defer func() {
		if derr := a.c.drain(); err == nil {
			err = derr
		}
	}()
	for {
		start := time.Now()
		if err := a.c.drain(); err != nil {
			return err
		}
		dl, err := a.c.next(ctx)
		if err != nil {
			return stopped(ctx, err)
		}

		frame := Frame{Seq: dl.Seq, Width: a.width, Height: a.height, Data: dl.Payload}
		rects, aerr := a.analyzer.Analyze(ctx, frame)
		if err := a.c.release(dl); err != nil {
			return err
		}

		switch {
		case aerr == nil:
			stored := a.overlays.Set(dl.Seq, rects)
			a.c.log.Debug("analysis done", logger.Seq(dl.Seq), logger.Count("regions", uint64(stored)),
				logger.Duration(time.Since(start)))
		case ctx.Err() != nil:
			// stopping; the analyzer saw the cancellation
		default:
			a.c.errors.Add(1)
			a.c.log.Warn("analysis failed", logger.Seq(dl.Seq), logger.Error(aerr))
		}

		if !sleep(ctx, time.Until(start.Add(a.interval))) {
			return nil
		}
	}
}

// Stats returns the stage counters.
func (a *Analysis) Stats() StageStats { return a.c.stats() }
