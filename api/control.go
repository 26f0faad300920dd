// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control aggregates runtime metrics and debug probes of a pipeline.
type Control interface {
	Debug
	// SetMetric publishes a named runtime metric.
	SetMetric(key string, value any)
	// Stats returns a copy of all metrics.
	Stats() map[string]any
}
