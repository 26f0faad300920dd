// File: config/pipeline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Environment-driven settings for the capture pipeline command.

package config

import (
	"math"
	"time"

	"github.com/momentics/framepipe/api"
)

// Pipeline configures the capture pipeline. Frames are YUV420 so width and
// height must be even.
type Pipeline struct {
	Width     int     `env:"FRAMEPIPE_WIDTH" envDefault:"640"`
	Height    int     `env:"FRAMEPIPE_HEIGHT" envDefault:"480"`
	FPS       float64 `env:"FRAMEPIPE_FPS" envDefault:"30"`
	Depth     int     `env:"FRAMEPIPE_DEPTH" envDefault:"2"`
	Analyzers int     `env:"FRAMEPIPE_ANALYZERS" envDefault:"1"`
	MaxFrames uint64  `env:"FRAMEPIPE_MAX_FRAMES" envDefault:"0"`

	// Zero retry delays make the stage block on the pipe instead of polling.
	RetryDelay         time.Duration `env:"FRAMEPIPE_RETRY_DELAY" envDefault:"1ms"`
	AnalysisRetryDelay time.Duration `env:"FRAMEPIPE_ANALYSIS_RETRY_DELAY" envDefault:"5ms"`
	AnalysisInterval   time.Duration `env:"FRAMEPIPE_ANALYSIS_INTERVAL" envDefault:"5s"`

	SnapshotDir   string `env:"FRAMEPIPE_SNAPSHOT_DIR"`
	SnapshotEvery int    `env:"FRAMEPIPE_SNAPSHOT_EVERY" envDefault:"30"`

	// CPU pins; negative leaves the stage unpinned.
	ProducerCPU int `env:"FRAMEPIPE_PRODUCER_CPU" envDefault:"-1"`
	DisplayCPU  int `env:"FRAMEPIPE_DISPLAY_CPU" envDefault:"-1"`
	AnalysisCPU int `env:"FRAMEPIPE_ANALYSIS_CPU" envDefault:"-1"`

	StatsInterval time.Duration `env:"FRAMEPIPE_STATS_INTERVAL" envDefault:"5s"`
	LogLevel      string        `env:"FRAMEPIPE_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"FRAMEPIPE_LOG_FORMAT" envDefault:"text"`
}

// Consumers is the display consumer plus one per analyzer.
func (c Pipeline) Consumers() int { return 1 + c.Analyzers }

// PayloadSize is the byte size of one YUV420 frame.
func (c Pipeline) PayloadSize() int { return c.Width * c.Height * 3 / 2 }

// Validate rejects settings the pipeline cannot be built with.
func (c Pipeline) Validate() error {
	bad := func(key string, v any) error { return api.ErrInvalidArgument.WithContext(key, v) }
	switch {
	case c.Width < 2 || c.Width%2 != 0:
		return bad("width", c.Width)
	case c.Height < 2 || c.Height%2 != 0:
		return bad("height", c.Height)
	case c.Width > math.MaxInt32/c.Height:
		return bad("frame", "too large")
	case c.FPS <= 0:
		return bad("fps", c.FPS)
	case c.Depth < 1:
		return bad("depth", c.Depth)
	case c.Analyzers < 0:
		return bad("analyzers", c.Analyzers)
	case c.RetryDelay < 0:
		return bad("retry_delay", c.RetryDelay)
	case c.AnalysisRetryDelay < 0:
		return bad("analysis_retry_delay", c.AnalysisRetryDelay)
	case c.AnalysisInterval < 0:
		return bad("analysis_interval", c.AnalysisInterval)
	case c.SnapshotEvery < 1:
		return bad("snapshot_every", c.SnapshotEvery)
	case c.StatsInterval <= 0:
		return bad("stats_interval", c.StatsInterval)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return bad("log_format", c.LogFormat)
	}
	return nil
}
