//go:build framepipe_debug
// +build framepipe_debug

// File: pool/assert_debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug builds stop at the first contract violation.

package pool

// DebugAssertions reports whether contract violations panic.
const DebugAssertions = true

func violation(err error) error {
	panic(err)
}
