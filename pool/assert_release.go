//go:build !framepipe_debug
// +build !framepipe_debug

// File: pool/assert_release.go
// Author: momentics <momentics@gmail.com>

package pool

// DebugAssertions reports whether contract violations panic.
const DebugAssertions = false

func violation(err error) error {
	return err
}
