// File: pool/inspect.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Read-only diagnostics: occupancy snapshots, queue traversal and an
// invariant checker used by tests and debug probes.

package pool

import (
	"fmt"
	"io"
)

// FreeList is the queue number Visit reports for the free list.
const FreeList = -1

// Snapshot is a point-in-time copy of pipe occupancy.
type Snapshot struct {
	Consumers   int   `json:"consumers"`
	Depth       int   `json:"depth"`
	PayloadSize int   `json:"payload_size"`
	Slots       int   `json:"slots"`
	Free        int   `json:"free"`
	Acquired    int   `json:"acquired"`
	InFlight    int   `json:"in_flight"`
	Pending     int   `json:"pending"`
	Queued      []int `json:"queued"`
	Held        []int `json:"held"`
	Closed      bool  `json:"closed"`
}

// Conserved reports whether every slot is accounted for exactly once and
// every pending reference sits either in a delivery queue or in a consumer's
// hands.
func (s Snapshot) Conserved() bool {
	if s.Free+s.Acquired+s.InFlight != s.Slots {
		return false
	}
	refs := 0
	for i := range s.Queued {
		refs += s.Queued[i] + s.Held[i]
	}
	return refs == s.Pending
}

// Inspect copies the occupancy counters under the lock.
func (p *Pipe) Inspect() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Consumers:   p.consumers,
		Depth:       p.depth,
		PayloadSize: p.payloadSize,
		Slots:       len(p.slots),
		Free:        p.free.Len(),
		Acquired:    p.acquired,
		InFlight:    p.inFlight,
		Pending:     p.pending,
		Queued:      make([]int, p.consumers),
		Held:        make([]int, p.consumers),
		Closed:      p.closed,
	}
	for i := range p.delivery {
		snap.Queued[i] = p.delivery[i].Len()
	}
	copy(snap.Held, p.held)
	return snap
}

// SlotInfo describes one queued slot reference.
type SlotInfo struct {
	Index   int
	Seq     uint64
	Pending int
	State   string
}

// Visit calls fn for every queued entry, the free list first (queue
// FreeList) and then each delivery queue, oldest first. fn runs under the
// pipe lock and must not call back into the pipe.
func (p *Pipe) Visit(fn func(queue int, info SlotInfo)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.free.Iterate(func(idx uint32) { fn(FreeList, p.info(idx)) })
	for q := range p.delivery {
		p.delivery[q].Iterate(func(idx uint32) { fn(q, p.info(idx)) })
	}
}

func (p *Pipe) info(idx uint32) SlotInfo {
	s := &p.slots[idx]
	return SlotInfo{Index: int(idx), Seq: s.seq, Pending: s.pending, State: s.state.String()}
}

// Dump writes a human readable listing of every queue.
func (p *Pipe) Dump(w io.Writer) error {
	var err error
	last := FreeList - 1
	p.Visit(func(q int, info SlotInfo) {
		if err != nil {
			return
		}
		for last < q {
			last++
			err = p.dumpHeader(w, last)
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(w, "  slot %d: seq=%d pending=%d %s\n", info.Index, info.Seq, info.Pending, info.State)
	})
	for err == nil && last < p.consumers-1 {
		last++
		err = p.dumpHeader(w, last)
	}
	return err
}

func (p *Pipe) dumpHeader(w io.Writer, q int) error {
	if q == FreeList {
		_, err := fmt.Fprintln(w, "free")
		return err
	}
	_, err := fmt.Fprintf(w, "consumer %d\n", q)
	return err
}

// Check walks every slot and verifies the bookkeeping invariants. It is
// meant for tests and debug probes, not hot paths.
func (p *Pipe) Check() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	onFree := make([]int, len(p.slots))
	queued := make([]int, len(p.slots))
	p.free.Iterate(func(idx uint32) { onFree[idx]++ })
	for q := range p.delivery {
		p.delivery[q].Iterate(func(idx uint32) { queued[idx]++ })
	}

	var acquired, inFlight, pending int
	held := make([]int, p.consumers)
	for i := range p.slots {
		s := &p.slots[i]
		if s.pending != s.holderCount() {
			return fmt.Errorf("pool: slot %d pending %d but %d holders", i, s.pending, s.holderCount())
		}
		taken := 0
		for c := 0; c < p.consumers; c++ {
			if s.took(c) {
				if !s.holds(c) {
					return fmt.Errorf("pool: slot %d taken by consumer %d without holding it", i, c)
				}
				taken++
				held[c]++
			}
		}
		if s.state != stateFree && onFree[i] != 0 {
			return fmt.Errorf("pool: %s slot %d on the free list", s.state, i)
		}
		switch s.state {
		case stateFree:
			if onFree[i] != 1 || queued[i] != 0 || s.pending != 0 {
				return fmt.Errorf("pool: free slot %d on free list %d times, queued %d times", i, onFree[i], queued[i])
			}
		case stateAcquired:
			acquired++
			if queued[i] != 0 || s.pending != 0 {
				return fmt.Errorf("pool: acquired slot %d is queued or referenced", i)
			}
		case stateInFlight:
			inFlight++
			pending += s.pending
			if s.pending == 0 {
				return fmt.Errorf("pool: in-flight slot %d has no references", i)
			}
			if queued[i] != s.pending-taken {
				return fmt.Errorf("pool: slot %d queued %d times, want %d", i, queued[i], s.pending-taken)
			}
		}
	}
	if acquired != p.acquired || inFlight != p.inFlight || pending != p.pending {
		return fmt.Errorf("pool: counters acquired=%d in_flight=%d pending=%d, slots say %d/%d/%d",
			p.acquired, p.inFlight, p.pending, acquired, inFlight, pending)
	}
	for c := range held {
		if held[c] != p.held[c] {
			return fmt.Errorf("pool: consumer %d holds %d, counter says %d", c, held[c], p.held[c])
		}
	}
	return nil
}
