// File: pool/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Payload arena: one contiguous region carved into fixed-size slot payloads.

package pool

import (
	"fmt"

	"github.com/momentics/framepipe/api"
)

// Allocator obtains and returns the contiguous payload region of a pipe.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(region []byte) error
}

// HeapAllocator serves regions from the Go heap.
type HeapAllocator struct{}

// Alloc returns a zeroed heap slice.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 1 {
		return nil, api.ErrInvalidArgument.WithContext("size", size)
	}
	return make([]byte, size), nil
}

// Free is a no-op; the region is left to the garbage collector.
func (HeapAllocator) Free([]byte) error { return nil }

// arena owns the region and hands out payload windows.
type arena struct {
	alloc  Allocator
	region []byte
	unit   int
}

func newArena(a Allocator, slots, unit int) (*arena, error) {
	region, err := a.Alloc(slots * unit)
	if err != nil {
		return nil, fmt.Errorf("pool: allocate %d x %d byte payload arena: %w", slots, unit, err)
	}
	if len(region) < slots*unit {
		_ = a.Free(region)
		return nil, api.ErrResourceExhausted.WithContext("short_region", len(region))
	}
	return &arena{alloc: a, region: region, unit: unit}, nil
}

// payload returns the window of slot i, capacity-limited so appends cannot
// spill into the neighbouring slot.
func (a *arena) payload(i int) []byte {
	off := i * a.unit
	return a.region[off : off+a.unit : off+a.unit]
}

func (a *arena) release() error {
	region := a.region
	a.region = nil
	if region == nil {
		return nil
	}
	return a.alloc.Free(region)
}
