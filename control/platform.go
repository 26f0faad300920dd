// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes: CPU count, goroutines and the CPU mask of the dumping thread.

package control

import (
	"runtime"

	"github.com/momentics/framepipe/affinity"
)

// RegisterPlatformProbes sets platform debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
	dp.RegisterProbe("platform.affinity", func() any {
		cpus, err := affinity.Current()
		if err != nil {
			return err.Error()
		}
		return cpus
	})
}
