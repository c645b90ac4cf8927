// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softrender

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/layerfx"
	"github.com/gogpu/layerfx/graph"
)

// BlitMaterial runs the full-screen composite: sample src through the
// material's scale/bias transform and write the pass's color attachment.
//
// A blit material copies the sampled source pixel-for-pixel. A falloff
// material multiplies the sampled pixel by the base color and the radial
// coverage at the pixel's centered distance, then composites source-over,
// so a fully transparent source leaves the destination untouched.
func (e *Executor) BlitMaterial(pc *graph.PassContext, m *layerfx.Material, src graph.TextureHandle) error {
	if m == nil {
		return layerfx.ErrNoMaterial
	}
	dst, err := colorImage(pc.Name()+" color", pc.ColorTarget())
	if err != nil {
		return err
	}
	srcImg, err := colorImage(pc.Name()+" source", pc.Source(src))
	if err != nil {
		return err
	}

	sampled := srcImg
	if !m.Identity() {
		sampled = resample(srcImg, dst.Bounds(), m.Scale, m.Bias)
	}

	switch m.Kind {
	case layerfx.MaterialBlit:
		draw.Draw(dst, dst.Bounds(), sampled, sampled.Bounds().Min, draw.Src)
	case layerfx.MaterialFalloff:
		e.compositeFalloff(dst, sampled, m)
	}
	return nil
}

// compositeFalloff applies the falloff program per pixel and composites
// source-over onto dst. image.RGBA stores premultiplied alpha, so the
// non-premultiplied contract
//
//	out.rgb = src.rgb * base.rgb
//	out.a   = src.a * base.a * g
//
// folds into a single per-channel multiply of the premultiplied source:
// out.rgb_p = src.rgb_p * base.rgb * (base.a * g).
func (e *Executor) compositeFalloff(dst, src *image.RGBA, m *layerfx.Material) {
	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			u := (float64(x-b.Min.X) + 0.5) / w
			v := (float64(y-b.Min.Y) + 0.5) / h
			g := layerfx.FalloffAt(u, v, m.Radius, m.Smoothness)

			s := src.RGBAAt(x-b.Min.X+src.Rect.Min.X, y-b.Min.Y+src.Rect.Min.Y)
			ka := m.Base.A * g
			or := mul8(s.R, m.Base.R*ka)
			og := mul8(s.G, m.Base.G*ka)
			ob := mul8(s.B, m.Base.B*ka)
			oa := mul8(s.A, ka)

			// Payloads are free to write non-premultiplied pixels, so the
			// source-over sum can exceed the channel range; saturate
			// instead of wrapping.
			d := dst.RGBAAt(x, y)
			inv := 1 - float64(oa)/255
			d.R = addClamp8(or, float64(d.R)*inv)
			d.G = addClamp8(og, float64(d.G)*inv)
			d.B = addClamp8(ob, float64(d.B)*inv)
			d.A = addClamp8(oa, float64(d.A)*inv)
			dst.SetRGBA(x, y, d)
		}
	}
}

// addClamp8 adds a fractional contribution to an 8-bit channel,
// saturating at 255.
func addClamp8(c uint8, f float64) uint8 {
	sum := float64(c) + f + 0.5
	if sum >= 255 {
		return 255
	}
	return uint8(sum)
}

// mul8 scales an 8-bit channel by a factor in [0, 1].
func mul8(c uint8, k float64) uint8 {
	if k <= 0 {
		return 0
	}
	if k >= 1 {
		return c
	}
	return uint8(float64(c)*k + 0.5)
}

// resample applies the material's scale/bias to the source: the composite
// samples src at uv*scale + bias, so the destination image is src
// transformed by the inverse affine. A zero scale component collapses the
// sample space; the result is fully transparent.
func resample(src *image.RGBA, bounds image.Rectangle, scale, bias [2]float64) *image.RGBA {
	out := image.NewRGBA(bounds)
	if scale[0] == 0 || scale[1] == 0 {
		return out
	}
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	aff := f64.Aff3{
		1 / scale[0], 0, -bias[0] * sw / scale[0],
		0, 1 / scale[1], -bias[1] * sh / scale[1],
	}
	xdraw.ApproxBiLinear.Transform(out, aff, src, src.Bounds(), xdraw.Src, nil)
	return out
}
