// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer of a running pipeline.
//
// Provides concurrent-safe state handling primitives including:
//   - Metrics gauges and counters with snapshot reads
//   - Named debug probes evaluated on demand
//   - JSON state export for dumps on shutdown
package control
