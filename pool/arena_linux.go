//go:build linux
// +build linux

// File: pool/arena_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux payload arena backed by an anonymous private mapping, so frame
// buffers live outside the Go heap and never move or get scanned.

package pool

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/framepipe/api"
)

// MmapAllocator maps anonymous memory with mmap(2).
type MmapAllocator struct{}

// Alloc maps size bytes of zeroed, private, read-write memory.
func (MmapAllocator) Alloc(size int) ([]byte, error) {
	if size < 1 {
		return nil, api.ErrInvalidArgument.WithContext("size", size)
	}
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// Free unmaps a region returned by Alloc.
func (MmapAllocator) Free(region []byte) error {
	return unix.Munmap(region)
}

// DefaultAllocator returns the platform allocator for payload arenas.
func DefaultAllocator() Allocator { return MmapAllocator{} }
