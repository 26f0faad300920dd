//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

func setAffinityPlatform(int) (func(), error) {
	return nil, ErrUnsupported
}

func currentPlatform() ([]int, error) {
	return nil, ErrUnsupported
}
