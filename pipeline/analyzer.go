// File: pipeline/analyzer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Frame analyzers run by analysis stages.

package pipeline

import (
	"context"
)

// Analyzer inspects a frame and returns the regions it found. The frame
// aliases a pipe slot and must not be retained or modified.
type Analyzer interface {
	Analyze(ctx context.Context, f Frame) ([]Rect, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, f Frame) ([]Rect, error)

// Analyze calls fn.
func (fn AnalyzerFunc) Analyze(ctx context.Context, f Frame) ([]Rect, error) { return fn(ctx, f) }

// SpotDetector finds bright regions in the luma plane. It averages
// Cell x Cell blocks, marks blocks at or above Threshold and reports the
// bounding box of each 4-connected group, at most MaxOverlays of them.
// Zero fields default to 8 pixel cells and a threshold of 230.
type SpotDetector struct {
	Threshold byte
	Cell      int
}

// Analyze implements Analyzer.
func (d SpotDetector) Analyze(ctx context.Context, f Frame) ([]Rect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cell := d.Cell
	if cell <= 0 {
		cell = 8
	}
	threshold := int(d.Threshold)
	if threshold == 0 {
		threshold = 230
	}

	gw, gh := f.Width/cell, f.Height/cell
	if gw == 0 || gh == 0 {
		return nil, nil
	}
	luma := f.Luma()
	hot := make([]bool, gw*gh)
	for gy := 0; gy < gh; gy++ {
		for gx := 0; gx < gw; gx++ {
			sum := 0
			for y := gy * cell; y < (gy+1)*cell; y++ {
				row := luma[y*f.Width+gx*cell : y*f.Width+(gx+1)*cell]
				for _, v := range row {
					sum += int(v)
				}
			}
			hot[gy*gw+gx] = sum >= threshold*cell*cell
		}
	}

	var found []Rect
	stack := make([]int, 0, 16)
	for start := range hot {
		if !hot[start] {
			continue
		}
		if len(found) == MaxOverlays {
			break
		}
		minX, minY, maxX, maxY := gw, gh, -1, -1
		hot[start] = false
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := c%gw, c/gw
			minX, maxX = min(minX, cx), max(maxX, cx)
			minY, maxY = min(minY, cy), max(maxY, cy)
			for _, n := range [4]int{c - 1, c + 1, c - gw, c + gw} {
				if n < 0 || n >= len(hot) || !hot[n] {
					continue
				}
				// left and right neighbours must stay on the same grid row
				if (n == c-1 || n == c+1) && n/gw != cy {
					continue
				}
				hot[n] = false
				stack = append(stack, n)
			}
		}
		found = append(found, Rect{
			X:     minX * cell,
			Y:     minY * cell,
			W:     (maxX - minX + 1) * cell,
			H:     (maxY - minY + 1) * cell,
			Label: "spot",
			Score: 1,
		})
	}
	return found, nil
}
