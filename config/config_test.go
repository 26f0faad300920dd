package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/config"
)

func TestParse_Defaults(t *testing.T) {
	var cfg config.Pipeline
	require.NoError(t, config.Parse(&cfg))

	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, 2, cfg.Consumers())
	assert.Equal(t, 640*480*3/2, cfg.PayloadSize())
	assert.Equal(t, time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 5*time.Millisecond, cfg.AnalysisRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.AnalysisInterval)
	assert.Equal(t, -1, cfg.ProducerCPU)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("FRAMEPIPE_WIDTH", "320")
	t.Setenv("FRAMEPIPE_HEIGHT", "240")
	t.Setenv("FRAMEPIPE_ANALYZERS", "3")
	t.Setenv("FRAMEPIPE_ANALYSIS_INTERVAL", "250ms")
	t.Setenv("FRAMEPIPE_LOG_FORMAT", "json")

	var cfg config.Pipeline
	require.NoError(t, config.Parse(&cfg))
	assert.Equal(t, 4, cfg.Consumers())
	assert.Equal(t, 320*240*3/2, cfg.PayloadSize())
	assert.Equal(t, 250*time.Millisecond, cfg.AnalysisInterval)
	assert.NoError(t, cfg.Validate())
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("FRAMEPIPE_DEPTH", "two")

	var cfg config.Pipeline
	err := config.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Depth")
}

func TestLoad_CachesPerType(t *testing.T) {
	type probe struct {
		Value string `env:"FRAMEPIPE_TEST_PROBE" envDefault:"first"`
	}
	t.Setenv("FRAMEPIPE_TEST_PROBE", "first")
	var a probe
	require.NoError(t, config.Load(&a))

	t.Setenv("FRAMEPIPE_TEST_PROBE", "second")
	var b probe
	config.MustLoad(&b)
	assert.Equal(t, "first", b.Value)
}

func TestValidate(t *testing.T) {
	valid := func() config.Pipeline {
		var cfg config.Pipeline
		require.NoError(t, config.Parse(&cfg))
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*config.Pipeline)
	}{
		{"odd width", func(c *config.Pipeline) { c.Width = 641 }},
		{"zero height", func(c *config.Pipeline) { c.Height = 0 }},
		{"huge frame", func(c *config.Pipeline) { c.Width, c.Height = 1 << 20, 1 << 20 }},
		{"no fps", func(c *config.Pipeline) { c.FPS = 0 }},
		{"no depth", func(c *config.Pipeline) { c.Depth = 0 }},
		{"negative analyzers", func(c *config.Pipeline) { c.Analyzers = -1 }},
		{"negative retry delay", func(c *config.Pipeline) { c.RetryDelay = -time.Millisecond }},
		{"no snapshot cadence", func(c *config.Pipeline) { c.SnapshotEvery = 0 }},
		{"unknown log format", func(c *config.Pipeline) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), api.ErrInvalidArgument)
		})
	}

	cfg := valid()
	cfg.Analyzers = 0
	cfg.RetryDelay = 0
	assert.NoError(t, cfg.Validate(), "display-only blocking pipeline")
}
