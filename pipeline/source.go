// File: pipeline/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Capture sources. TestPattern stands in for a camera: a moving gradient
// with one bright block that SpotDetector can find.

package pipeline

import (
	"context"
	"time"

	"github.com/momentics/framepipe/api"
)

// Source fills buf with the next frame. Returning io.EOF ends the stream.
type Source interface {
	Capture(ctx context.Context, buf []byte) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, buf []byte) error

// Capture calls f.
func (f SourceFunc) Capture(ctx context.Context, buf []byte) error { return f(ctx, buf) }

const (
	patternLow   = 16
	patternRange = 160
	patternSpot  = 235
)

// TestPattern renders synthetic YUV420 frames paced to a frame rate.
// Not safe for concurrent use; the producer is its only caller.
type TestPattern struct {
	width, height int
	interval      time.Duration
	next          time.Time
	frames        uint64
}

// NewTestPattern creates a source; fps <= 0 disables pacing.
func NewTestPattern(width, height int, fps float64) (*TestPattern, error) {
	if err := checkGeometry(width, height); err != nil {
		return nil, err
	}
	tp := &TestPattern{width: width, height: height}
	if fps > 0 {
		tp.interval = time.Duration(float64(time.Second) / fps)
	}
	return tp, nil
}

// Capture waits for the next frame time and renders into buf.
func (tp *TestPattern) Capture(ctx context.Context, buf []byte) error {
	if len(buf) < FrameSize(tp.width, tp.height) {
		return api.ErrInvalidArgument.WithContext("buffer", len(buf))
	}
	if tp.interval > 0 {
		now := time.Now()
		if tp.next.IsZero() {
			tp.next = now
		}
		if !sleep(ctx, tp.next.Sub(now)) {
			return ctx.Err()
		}
		tp.next = tp.next.Add(tp.interval)
		// fell behind: resync instead of bursting
		if late := time.Now(); tp.next.Before(late) {
			tp.next = late
		}
	}
	tp.frames++
	tp.render(buf, tp.frames)
	return nil
}

// Spot returns where frame n draws its bright block.
func (tp *TestPattern) Spot(n uint64) Rect {
	size := max(min(tp.width, tp.height)/4, 2)
	span := tp.width - size
	x := 0
	if span > 0 {
		x = int(n*4) % (2 * span)
		if x > span {
			x = 2*span - x
		}
	}
	return Rect{X: x, Y: (tp.height - size) / 2, W: size, H: size}
}

func (tp *TestPattern) render(buf []byte, n uint64) {
	w, h := tp.width, tp.height
	shift := int(n % patternRange)
	for y := 0; y < h; y++ {
		row := buf[y*w : (y+1)*w]
		for x := range row {
			row[x] = byte(patternLow + (x+y+shift)%patternRange)
		}
	}
	spot := tp.Spot(n)
	for y := spot.Y; y < spot.Y+spot.H && y < h; y++ {
		row := buf[y*w : (y+1)*w]
		for x := spot.X; x < spot.X+spot.W && x < w; x++ {
			row[x] = patternSpot
		}
	}
	chroma := buf[w*h : FrameSize(w, h)]
	for i := range chroma {
		chroma[i] = 128
	}
}
