// File: pipeline/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipeline

import (
	"log/slog"
	"time"

	"github.com/momentics/framepipe/config"
	"github.com/momentics/framepipe/control"
	"github.com/momentics/framepipe/pool"
)

// Config sizes and paces a pipeline. CPU fields below zero leave a stage
// unpinned; a zero StatsInterval disables periodic reporting.
type Config struct {
	Width, Height    int
	Depth            int
	MaxFrames        uint64
	Retry            RetryPolicy
	AnalysisRetry    RetryPolicy
	AnalysisInterval time.Duration
	ProducerCPU      int
	DisplayCPU       int
	AnalysisCPU      int
	StatsInterval    time.Duration
}

// ConfigFrom maps the environment configuration.
func ConfigFrom(c config.Pipeline) Config {
	return Config{
		Width:            c.Width,
		Height:           c.Height,
		Depth:            c.Depth,
		MaxFrames:        c.MaxFrames,
		Retry:            RetryPolicy{Delay: c.RetryDelay},
		AnalysisRetry:    RetryPolicy{Delay: c.AnalysisRetryDelay},
		AnalysisInterval: c.AnalysisInterval,
		ProducerCPU:      c.ProducerCPU,
		DisplayCPU:       c.DisplayCPU,
		AnalysisCPU:      c.AnalysisCPU,
		StatsInterval:    c.StatsInterval,
	}
}

// Option customizes a Pipeline.
type Option func(*options)

type options struct {
	log   *slog.Logger
	ctrl  *control.Controller
	alloc pool.Allocator
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithController registers probes and metrics on c.
func WithController(c *control.Controller) Option {
	return func(o *options) { o.ctrl = c }
}

// WithAllocator overrides the payload arena allocator.
func WithAllocator(a pool.Allocator) Option {
	return func(o *options) { o.alloc = a }
}
