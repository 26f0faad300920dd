// File: pipeline/overlays.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Overlay store shared by analysis stages (writers) and the display
// stage (reader).

package pipeline

import (
	"sync"
)

// MaxOverlays caps the regions kept per analysis result.
const MaxOverlays = 10

// Overlays holds the most recent analysis result.
type Overlays struct {
	mu      sync.Mutex
	rects   [MaxOverlays]Rect
	n       int
	seq     uint64
	dropped uint64
}

// Set replaces the overlays with rects found on frame seq, keeping at most
// MaxOverlays. Results for a frame older than the stored one are ignored.
// It returns how many rectangles were stored.
func (o *Overlays) Set(seq uint64, rects []Rect) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	if seq < o.seq {
		return 0
	}
	o.seq = seq
	o.n = copy(o.rects[:], rects)
	o.dropped += uint64(len(rects) - o.n)
	return o.n
}

// Snapshot appends the current overlays to dst and returns them with the
// frame sequence they were computed on.
func (o *Overlays) Snapshot(dst []Rect) ([]Rect, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append(dst, o.rects[:o.n]...), o.seq
}

// Dropped counts rectangles discarded by the MaxOverlays cap.
func (o *Overlays) Dropped() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}
