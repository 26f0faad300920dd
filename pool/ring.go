// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Bounded circular FIFO used for the free list and every delivery queue.
// Small rings keep their storage inline; the owner supplies locking.

package pool

import (
	"fmt"

	"github.com/momentics/framepipe/api"
)

// InlineCapacity is the largest ring capacity served without a heap allocation.
const InlineCapacity = 5

// Ring is a fixed-capacity circular buffer. Not safe for concurrent use.
// A Ring must not be copied after init: small rings point into their own
// inline array, so a copy would share storage with the original.
type Ring[T any] struct {
	_      noCopy
	inline [InlineCapacity]T
	data   []T
	head   int
	count  int
}

// NewRing allocates a ring of the given capacity.
func NewRing[T any](capacity int) (*Ring[T], error) {
	r := &Ring[T]{}
	if err := r.init(capacity); err != nil {
		return nil, err
	}
	return r, nil
}

// init prepares a zero Ring in place so rings embedded in other structs
// share their parent's allocation.
func (r *Ring[T]) init(capacity int) error {
	if capacity < 1 {
		return api.ErrInvalidArgument.WithContext("capacity", capacity)
	}
	if capacity <= InlineCapacity {
		r.data = r.inline[:capacity]
	} else {
		r.data = make([]T, capacity)
	}
	r.head, r.count = 0, 0
	return nil
}

// Push appends item at the write position; returns false if full.
func (r *Ring[T]) Push(item T) bool {
	if r.count >= len(r.data) {
		return false
	}
	r.data[(r.head+r.count)%len(r.data)] = item
	r.count++
	return true
}

// Pop removes and returns the oldest item; ok is false if empty.
func (r *Ring[T]) Pop() (item T, ok bool) {
	if r.count == 0 {
		return item, false
	}
	var zero T
	item = r.data[r.head]
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.count--
	return item, true
}

// Iterate calls fn once per queued item, oldest first. fn must not mutate the ring.
func (r *Ring[T]) Iterate(fn func(T)) {
	for i, idx := 0, r.head; i < r.count; i++ {
		fn(r.data[idx])
		idx = (idx + 1) % len(r.data)
	}
}

// Len returns number of queued items.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Inline reports whether the ring uses its embedded storage.
func (r *Ring[T]) Inline() bool {
	return len(r.data) > 0 && &r.data[0] == &r.inline[0]
}

func (r *Ring[T]) String() string {
	return fmt.Sprintf("ring(%d/%d)", r.count, len(r.data))
}

var _ api.Ring[int] = (*Ring[int])(nil)

// noCopy lets go vet's copylocks check flag Ring values copied by assignment.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
