// File: internal/rate/meter.go
// Author: momentics <momentics@gmail.com>
//
// Sliding-window event rate meter. Timestamps live in an eapache/queue ring
// buffer; ticks older than the window are evicted on every access.

package rate

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// Meter measures events per second over a trailing window. Safe for
// concurrent use.
type Meter struct {
	mu     sync.Mutex
	window time.Duration
	stamps *queue.Queue
	total  uint64
	now    func() time.Time
}

// NewMeter creates a meter over window; non-positive windows default to one second.
func NewMeter(window time.Duration) *Meter {
	if window <= 0 {
		window = time.Second
	}
	return &Meter{window: window, stamps: queue.New(), now: time.Now}
}

// WithClock swaps the time source, for tests.
func (m *Meter) WithClock(now func() time.Time) *Meter {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	return m
}

// Tick records one event.
func (m *Meter) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now()
	m.evict(t)
	m.stamps.Add(t)
	m.total++
}

// Rate returns events per second across the stamps still in the window,
// measured between the oldest and newest one. Fewer than two stamps give 0.
func (m *Meter) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evict(m.now())
	n := m.stamps.Length()
	if n < 2 {
		return 0
	}
	span := m.stamps.Get(-1).(time.Time).Sub(m.stamps.Peek().(time.Time))
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span.Seconds()
}

// Total returns the number of ticks since creation.
func (m *Meter) Total() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

func (m *Meter) evict(now time.Time) {
	cutoff := now.Add(-m.window)
	for m.stamps.Length() > 0 && m.stamps.Peek().(time.Time).Before(cutoff) {
		m.stamps.Remove()
	}
}
