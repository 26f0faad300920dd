// File: pool/slot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slot metadata and the handles that refer to it.

package pool

import (
	"fmt"
	"math/bits"
)

type slotState uint8

const (
	stateFree slotState = iota
	stateAcquired
	stateInFlight
)

func (s slotState) String() string {
	switch s {
	case stateFree:
		return "free"
	case stateAcquired:
		return "acquired"
	case stateInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// slot is the distribution state of one fixed-size payload region.
type slot struct {
	payload []byte
	seq     uint64
	gen     uint32
	state   slotState
	pending int
	// holders has bit i set while consumer i holds a queued or received
	// reference; pending == popcount(holders). taken marks the received subset.
	holders []uint64
	taken   []uint64
}

func (s *slot) holds(id int) bool {
	return s.holders[id>>6]&(1<<(uint(id)&63)) != 0
}

func (s *slot) hold(id int) {
	s.holders[id>>6] |= 1 << (uint(id) & 63)
	s.pending++
}

func (s *slot) drop(id int) {
	s.holders[id>>6] &^= 1 << (uint(id) & 63)
	s.pending--
}

func (s *slot) took(id int) bool {
	return s.taken[id>>6]&(1<<(uint(id)&63)) != 0
}

func (s *slot) take(id int) {
	s.taken[id>>6] |= 1 << (uint(id) & 63)
}

func (s *slot) untake(id int) {
	s.taken[id>>6] &^= 1 << (uint(id) & 63)
}

func (s *slot) holderCount() int {
	n := 0
	for _, w := range s.holders {
		n += bits.OnesCount64(w)
	}
	return n
}

// Handle refers to one slot of one pipe. The zero Handle is invalid.
//
// A handle stays valid from Acquire until the slot re-enters the free list;
// after that its generation no longer matches and every operation rejects it.
type Handle struct {
	pipe  uint32
	index uint32
	gen   uint32
}

// Valid reports whether h was issued by a pipe at all.
func (h Handle) Valid() bool { return h.pipe != 0 }

// Index returns the slot index, for diagnostics.
func (h Handle) Index() int { return int(h.index) }

func (h Handle) String() string {
	if !h.Valid() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d#%d)", h.index, h.gen)
}

// Delivery is one consumer's reference to a published slot.
// Payload is read-only and must not be retained after Release.
type Delivery struct {
	Handle   Handle
	Consumer int
	Seq      uint64
	Payload  []byte
}
