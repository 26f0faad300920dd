// Package pool
// Author: momentics <momentics@gmail.com>
//
// Allocation-free broadcast pool for fixed-size frame buffers.
//
// A Pipe owns consumers*depth slots carved from one payload arena, a free
// list and one bounded delivery queue per consumer. The producer cycles
//
//	Acquire -> fill payload -> Publish(seq)
//
// and every consumer cycles
//
//	Receive(id) -> read payload -> Release
//
// Publish enqueues the slot on every delivery queue with room and counts the
// references; a slot returns to the free list when the count drops to zero,
// immediately if nobody could take it. Slow consumers miss frames instead of
// stalling the producer, and Drain lets a consumer skip straight to the
// freshest frame. See pipe.go, ring.go and inspect.go for details.
package pool
