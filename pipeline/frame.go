// File: pipeline/frame.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Frame layout helpers. Payloads are planar YUV420: a full-size luma plane
// followed by quarter-size Cb and Cr planes.

package pipeline

import (
	"image"

	"github.com/momentics/framepipe/api"
)

// Frame is one captured picture. Data is only valid while the slot backing
// it is held, unless the stage copied it out.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Data   []byte
}

// Rect is a detected region in frame coordinates.
type Rect struct {
	X, Y, W, H int
	Label      string
	Score      float64
}

// Bounds converts r to an image rectangle.
func (r Rect) Bounds() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// FrameSize is the YUV420 byte size of a width x height frame.
func FrameSize(width, height int) int { return width * height * 3 / 2 }

func checkGeometry(width, height int) error {
	if width < 2 || width%2 != 0 {
		return api.ErrInvalidArgument.WithContext("width", width)
	}
	if height < 2 || height%2 != 0 {
		return api.ErrInvalidArgument.WithContext("height", height)
	}
	return nil
}

// Luma returns the Y plane.
func (f Frame) Luma() []byte { return f.Data[:f.Width*f.Height] }

// Image wraps the frame without copying.
func (f Frame) Image() *image.YCbCr {
	ySize := f.Width * f.Height
	cSize := ySize / 4
	return &image.YCbCr{
		Y:              f.Data[:ySize],
		Cb:             f.Data[ySize : ySize+cSize],
		Cr:             f.Data[ySize+cSize : ySize+2*cSize],
		YStride:        f.Width,
		CStride:        f.Width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, f.Width, f.Height),
	}
}
