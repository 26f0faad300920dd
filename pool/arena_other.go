//go:build !linux
// +build !linux

// File: pool/arena_other.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux platforms fall back to heap arenas.

package pool

// DefaultAllocator returns the platform allocator for payload arenas.
func DefaultAllocator() Allocator { return HeapAllocator{} }
