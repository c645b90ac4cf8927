// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softrender

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/layerfx/graph"
)

// Drawable is a renderer-list payload this executor can draw. Payloads of
// other kinds are skipped, matching how each executor only draws what it
// understands.
type Drawable interface {
	Draw(dst *image.RGBA)
}

// Fill fills the whole target with a color.
type Fill struct {
	Color color.RGBA
}

// Draw implements Drawable.
func (f Fill) Draw(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.Color), image.Point{}, draw.Src)
}

// Circle draws a filled circle. CX, CY and R are in pixels relative to
// the target's origin.
type Circle struct {
	CX, CY, R float64
	Color     color.RGBA
}

// Draw implements Drawable.
func (c Circle) Draw(dst *image.RGBA) {
	b := dst.Bounds()
	rr := c.R * c.R
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - c.CX
			dy := float64(y) + 0.5 - c.CY
			if dx*dx+dy*dy <= rr {
				dst.SetRGBA(x, y, c.Color)
			}
		}
	}
}

// DrawList renders the pass's renderer list into its color attachment.
// The software path has no depth buffer; the shared depth attachment is
// an ordering declaration only.
func (e *Executor) DrawList(pc *graph.PassContext) error {
	dst, err := colorImage(pc.Name()+" color", pc.ColorTarget())
	if err != nil {
		return err
	}
	drawn := 0
	for _, item := range pc.Items() {
		d, ok := item.(Drawable)
		if !ok {
			continue
		}
		d.Draw(dst)
		drawn++
	}
	e.log.Debug("softrender: drew renderer list", "pass", pc.Name(),
		"items", len(pc.Items()), "drawn", drawn)
	return nil
}
