// Package api
// Author: momentics@gmail.com
//
// Bounded FIFO contract shared by the free list and delivery queues.

package api

// Ring is a fixed-capacity FIFO of opaque handles.
// Implementations carry no internal locking; the owner synchronizes.
type Ring[T any] interface {
	// Push appends item, returns false if full.
	Push(item T) bool
	// Pop removes the oldest item, returns false if empty.
	Pop() (T, bool)
	// Iterate visits queued items oldest first without removing them.
	Iterate(fn func(T))
	// Len returns current number of items.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
}
