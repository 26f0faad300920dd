// control/controller.go
// Author: momentics <momentics@gmail.com>
//
// Controller bundles the metrics registry and probe registry behind api.Control.

package control

import (
	"io"

	"github.com/momentics/framepipe/api"
)

// Controller is the diagnostic surface of a running pipeline.
type Controller struct {
	metrics *MetricsRegistry
	probes  *DebugProbes
}

var _ api.Control = (*Controller)(nil)

// NewController creates a controller with the platform probes registered.
func NewController() *Controller {
	c := &Controller{
		metrics: NewMetricsRegistry(),
		probes:  NewDebugProbes(),
	}
	RegisterPlatformProbes(c.probes)
	return c
}

// Metrics exposes the underlying registry for counters.
func (c *Controller) Metrics() *MetricsRegistry { return c.metrics }

// SetMetric publishes a named runtime metric.
func (c *Controller) SetMetric(key string, value any) { c.metrics.Set(key, value) }

// Stats returns a copy of all metrics.
func (c *Controller) Stats() map[string]any { return c.metrics.GetSnapshot() }

// RegisterProbe registers a named debug probe.
func (c *Controller) RegisterProbe(name string, fn func() any) { c.probes.RegisterProbe(name, fn) }

// DumpState runs every probe and adds the metrics under "metrics".
func (c *Controller) DumpState() map[string]any {
	state := c.probes.DumpState()
	state["metrics"] = c.metrics.GetSnapshot()
	return state
}

// Dump writes DumpState as JSON.
func (c *Controller) Dump(w io.Writer) error {
	return WriteJSON(w, c.DumpState())
}
