package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/pipeline"
)

func TestNewTestPattern_Geometry(t *testing.T) {
	t.Parallel()

	for _, wh := range [][2]int{{0, 480}, {641, 480}, {640, 1}} {
		_, err := pipeline.NewTestPattern(wh[0], wh[1], 0)
		assert.ErrorIs(t, err, api.ErrInvalidArgument, "%v", wh)
	}
}

func TestTestPattern_Render(t *testing.T) {
	t.Parallel()

	const w, h = 96, 64
	tp, err := pipeline.NewTestPattern(w, h, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, tp.Capture(context.Background(), make([]byte, 10)), api.ErrInvalidArgument)

	buf := make([]byte, pipeline.FrameSize(w, h))
	require.NoError(t, tp.Capture(context.Background(), buf))

	frame := pipeline.Frame{Seq: 1, Width: w, Height: h, Data: buf}
	spot := tp.Spot(1)
	bright := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := frame.Luma()[y*w+x]
			inside := x >= spot.X && x < spot.X+spot.W && y >= spot.Y && y < spot.Y+spot.H
			if inside {
				require.Equal(t, byte(235), v)
				bright++
			} else {
				require.Less(t, v, byte(230))
			}
		}
	}
	assert.Equal(t, spot.W*spot.H, bright)
	for _, c := range buf[w*h:] {
		require.Equal(t, byte(128), c)
	}

	img := frame.Image()
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())
}

func TestTestPattern_SpotMoves(t *testing.T) {
	t.Parallel()

	tp, err := pipeline.NewTestPattern(120, 60, 0)
	require.NoError(t, err)
	for n := uint64(0); n < 200; n++ {
		s := tp.Spot(n)
		require.GreaterOrEqual(t, s.X, 0)
		require.LessOrEqual(t, s.X+s.W, 120)
	}
	assert.NotEqual(t, tp.Spot(1).X, tp.Spot(2).X)
}

func TestTestPattern_Pacing(t *testing.T) {
	t.Parallel()

	tp, err := pipeline.NewTestPattern(16, 16, 100)
	require.NoError(t, err)
	buf := make([]byte, pipeline.FrameSize(16, 16))

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, tp.Capture(context.Background(), buf))
	}
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	slow, err := pipeline.NewTestPattern(16, 16, 0.1)
	require.NoError(t, err)
	require.NoError(t, slow.Capture(context.Background(), buf))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, slow.Capture(ctx, buf), context.DeadlineExceeded)
}
