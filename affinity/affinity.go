// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"errors"
	"runtime"

	"github.com/momentics/framepipe/api"
)

// MaxCPU bounds the logical CPU ids Pin accepts.
const MaxCPU = 1024

// ErrUnsupported is returned where the platform cannot pin threads.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to logical CPU cpuID. The returned func restores the previous CPU mask and
// unlocks the thread; it must be called from the same goroutine.
func Pin(cpuID int) (unpin func(), err error) {
	if cpuID < 0 || cpuID >= MaxCPU {
		return nil, api.ErrInvalidArgument.WithContext("cpu", cpuID)
	}
	runtime.LockOSThread()
	restore, err := setAffinityPlatform(cpuID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		restore()
		runtime.UnlockOSThread()
	}, nil
}

// Current reports the CPUs the calling thread may run on, or ErrUnsupported.
func Current() ([]int, error) {
	return currentPlatform()
}
