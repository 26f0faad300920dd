package pipeline_test

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/pipeline"
)

func TestBMPSink_WritesEveryNth(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "snaps")
	sink, err := pipeline.NewBMPSink(dir, 2)
	require.NoError(t, err)

	box := pipeline.Rect{X: 20, Y: 20, W: 30, H: 20, Label: "spot"}
	for seq := uint64(1); seq <= 5; seq++ {
		f := blankFrame(64, 48)
		f.Seq = seq
		require.NoError(t, sink.Show(context.Background(), f, []pipeline.Rect{box}))
	}

	n, last := sink.Written()
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, filepath.Join(dir, "frame-00000005.bmp"), last)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	file, err := os.Open(last)
	require.NoError(t, err)
	defer file.Close()
	img, err := bmp.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	r, g, b, _ := img.At(box.X+box.W/2, box.Y+box.H-1).RGBA()
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

func TestNewBMPSink_Invalid(t *testing.T) {
	t.Parallel()

	_, err := pipeline.NewBMPSink(t.TempDir(), 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = pipeline.NewBMPSink(filepath.Join(file, "sub"), 1)
	assert.Error(t, err)
}

func TestDiscardSink(t *testing.T) {
	t.Parallel()
	assert.NoError(t, pipeline.DiscardSink{}.Show(context.Background(), blankFrame(2, 2), nil))
}
