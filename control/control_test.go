package control_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/framepipe/control"
)

func TestMetricsRegistry_SetAndAdd(t *testing.T) {
	t.Parallel()

	mr := control.NewMetricsRegistry()
	assert.True(t, mr.Updated().IsZero())

	mr.Set("fps", 29.5)
	v, ok := mr.Get("fps")
	require.True(t, ok)
	assert.Equal(t, 29.5, v)
	assert.False(t, mr.Updated().IsZero())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mr.Add("frames", 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), mr.GetSnapshot()["frames"])

	snap := mr.GetSnapshot()
	snap["fps"] = 0
	v, _ = mr.Get("fps")
	assert.Equal(t, 29.5, v, "snapshot must be a copy")
}

func TestDebugProbes_DumpState(t *testing.T) {
	t.Parallel()

	dp := control.NewDebugProbes()
	calls := 0
	dp.RegisterProbe("calls", func() any { calls++; return calls })
	dp.RegisterProbe("gone", func() any { return "x" })
	dp.UnregisterProbe("gone")

	assert.Equal(t, map[string]any{"calls": 1}, dp.DumpState())
	assert.Equal(t, map[string]any{"calls": 2}, dp.DumpState())
}

func TestDebugProbes_ProbeMayRegister(t *testing.T) {
	t.Parallel()

	dp := control.NewDebugProbes()
	dp.RegisterProbe("self", func() any {
		dp.RegisterProbe("late", func() any { return true })
		return "ok"
	})
	assert.Equal(t, "ok", dp.DumpState()["self"])
	assert.Equal(t, true, dp.DumpState()["late"])
}

func TestController_Dump(t *testing.T) {
	t.Parallel()

	c := control.NewController()
	c.SetMetric("producer.fps", 30)
	c.Metrics().Add("producer.frames", 3)
	c.RegisterProbe("pipe", func() any { return map[string]int{"free": 4} })

	state := c.DumpState()
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "platform.goroutines")
	assert.Contains(t, state, "pipe")
	assert.Equal(t, c.Stats(), state["metrics"])

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])

	var decoded struct {
		Pipe    map[string]int `json:"pipe"`
		Metrics map[string]any `json:"metrics"`
	}
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4, decoded.Pipe["free"])
	assert.EqualValues(t, 30, decoded.Metrics["producer.fps"])
	assert.EqualValues(t, 3, decoded.Metrics["producer.frames"])
}
