//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
// SetThreadAffinityMask hands back the previous mask, which restore reapplies.
func setAffinityPlatform(cpuID int) (func(), error) {
	thread := windows.CurrentThread()
	old, _, err := procSetThreadAffinityMask.Call(uintptr(thread), uintptr(1)<<cpuID)
	if old == 0 {
		return nil, err
	}
	return func() { _, _, _ = procSetThreadAffinityMask.Call(uintptr(thread), old) }, nil
}

func currentPlatform() ([]int, error) {
	return nil, ErrUnsupported
}
