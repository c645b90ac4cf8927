package layerfx

import "math"

// Falloff converts a distance from center into a coverage value in [0, 1]
// using a Hermite smoothstep with edges (radius, radius-smoothness):
// 1.0 for d <= radius-smoothness, 0.0 for d >= radius, and a smooth cubic
// in between.
//
// The edges are deliberately not validated against each other. A
// smoothness larger than the radius inverts the transition band and is
// accepted as an artistic control. With smoothness zero the band
// degenerates to a hard cutoff at the radius, and with radius zero the
// shape disappears entirely for non-negative smoothness. A negative
// smoothness reverses the edge order, so coverage rises with distance:
// 0 at the center and radius, 1 at and beyond radius-smoothness.
//
// This is the CPU reference for the WGSL fragment stage; the shader uses
// the same explicit Hermite formula because the builtin smoothstep leaves
// reversed edges undefined.
func Falloff(d, radius, smoothness float64) float64 {
	// t = (d - edge0) / (edge1 - edge0) with edge0 = radius,
	// edge1 = radius - smoothness.
	if smoothness == 0 {
		if d >= radius {
			return 0
		}
		return 1
	}
	t := (d - radius) / -smoothness
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// FalloffAt evaluates the falloff at a texture coordinate in [0,1]x[0,1].
// The coordinate is remapped to centered [-1,1] space and its Euclidean
// distance from the origin is fed to Falloff.
func FalloffAt(u, v, radius, smoothness float64) float64 {
	px := u*2 - 1
	py := v*2 - 1
	return Falloff(math.Hypot(px, py), radius, smoothness)
}
