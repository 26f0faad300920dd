// File: pipeline/display.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Display stage: consumer 0 sees every frame it has room for.

package pipeline

import (
	"context"

	"github.com/momentics/framepipe/logger"
	"github.com/momentics/framepipe/pool"
)

// Display copies each frame out of the pipe, releases the slot before any
// drawing and hands the copy to the sink with the latest overlays.
type Display struct {
	c        *consumer
	sink     Sink
	overlays *Overlays
	width    int
	height   int
	scratch  []byte
	rects    []Rect
}

func newDisplay(c *consumer, sink Sink, overlays *Overlays, width, height int) *Display {
	return &Display{
		c:        c,
		sink:     sink,
		overlays: overlays,
		width:    width,
		height:   height,
		scratch:  make([]byte, FrameSize(width, height)),
		rects:    make([]Rect, 0, MaxOverlays),
	}
}

// Run loops until ctx is done and the queue is empty. Sink errors are
// counted and logged; pipe errors end the stage.
func (d *Display) Run(ctx context.Context) error {
	for {
		dl, err := d.c.next(ctx)
		if err != nil {
			return stopped(ctx, err)
		}
		frame := d.copyOut(dl)
		if err := d.c.release(dl); err != nil {
			return err
		}
		d.rects, _ = d.overlays.Snapshot(d.rects[:0])
		if err := d.sink.Show(ctx, frame, d.rects); err != nil {
			if d.c.errors.Add(1) == 1 {
				d.c.log.Warn("sink failed", logger.Seq(frame.Seq), logger.Error(err))
			} else {
				d.c.log.Debug("sink failed", logger.Seq(frame.Seq), logger.Error(err))
			}
		}
	}
}

func (d *Display) copyOut(dl pool.Delivery) Frame {
	copy(d.scratch, dl.Payload)
	return Frame{Seq: dl.Seq, Width: d.width, Height: d.height, Data: d.scratch}
}

// Stats returns the stage counters.
func (d *Display) Stats() StageStats { return d.c.stats() }
