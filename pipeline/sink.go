// File: pipeline/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Display sinks. BMPSink writes snapshots with the overlays burned in,
// standing in for a screen.

package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/momentics/framepipe/api"
)

// Sink shows a frame. The frame data belongs to the display stage and is
// reused after Show returns.
type Sink interface {
	Show(ctx context.Context, f Frame, overlays []Rect) error
}

// DiscardSink drops every frame.
type DiscardSink struct{}

// Show implements Sink.
func (DiscardSink) Show(context.Context, Frame, []Rect) error { return nil }

var (
	boxColor   = color.RGBA{R: 255, A: 255}
	labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelBg    = color.RGBA{A: 255}
)

// BMPSink writes every Nth frame to dir as frame-<seq>.bmp.
type BMPSink struct {
	dir     string
	every   uint64
	shown   uint64
	written uint64
	last    string
	canvas  *image.RGBA
}

// NewBMPSink creates dir if needed.
func NewBMPSink(dir string, every int) (*BMPSink, error) {
	if every < 1 {
		return nil, api.ErrInvalidArgument.WithContext("every", every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: snapshot dir: %w", err)
	}
	return &BMPSink{dir: dir, every: uint64(every)}, nil
}

// Show implements Sink.
func (s *BMPSink) Show(_ context.Context, f Frame, overlays []Rect) error {
	s.shown++
	if (s.shown-1)%s.every != 0 {
		return nil
	}

	bounds := image.Rect(0, 0, f.Width, f.Height)
	if s.canvas == nil || s.canvas.Bounds() != bounds {
		s.canvas = image.NewRGBA(bounds)
	}
	draw.Draw(s.canvas, bounds, f.Image(), image.Point{}, draw.Src)
	for _, r := range overlays {
		drawBox(s.canvas, r.Bounds(), boxColor, 2)
		if r.Label != "" {
			drawLabel(s.canvas, r.X, r.Y-14, r.Label)
		}
	}
	drawLabel(s.canvas, 2, 2, fmt.Sprintf("seq %d", f.Seq))

	path := filepath.Join(s.dir, fmt.Sprintf("frame-%08d.bmp", f.Seq))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: snapshot: %w", err)
	}
	if err := bmp.Encode(file, s.canvas); err != nil {
		_ = file.Close()
		return fmt.Errorf("pipeline: encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("pipeline: snapshot: %w", err)
	}
	s.written++
	s.last = path
	return nil
}

// Written returns how many snapshots were written and the last path.
func (s *BMPSink) Written() (uint64, string) { return s.written, s.last }

func drawBox(img *image.RGBA, r image.Rectangle, c color.RGBA, thickness int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, r.Min.Y+t, c)
			img.SetRGBA(x, r.Max.Y-1-t, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetRGBA(r.Min.X+t, y, c)
			img.SetRGBA(r.Max.X-1-t, y, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, label string) {
	x, y = max(x, 0), max(y, 0)
	face := basicfont.Face7x13
	bg := image.Rect(x, y, x+len(label)*face.Advance+2, y+face.Height+1)
	draw.Draw(img, bg.Intersect(img.Bounds()), image.NewUniform(labelBg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + face.Ascent)},
	}
	d.DrawString(label)
}
