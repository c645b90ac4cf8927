package layerfx

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// MaterialKind selects the composite shader program.
type MaterialKind int

const (
	// MaterialFalloff composites through the radial falloff program:
	// output alpha is source alpha times base alpha times the falloff
	// coverage at the pixel's centered distance.
	MaterialFalloff MaterialKind = iota

	// MaterialBlit copies the source through the scale/bias transform
	// with no falloff. With identity scale and bias it reproduces the
	// source pixel-for-pixel.
	MaterialBlit
)

// Material parameterizes the composite blit. The pass holds a non-owning
// pointer; the host owns the material and may share it across features.
// Radius and Smoothness are expected in [0, 1] but are never clamped
// against each other, matching the falloff contract.
type Material struct {
	Kind       MaterialKind
	Base       gputypes.Color
	Radius     float64
	Smoothness float64

	// Scale and Bias transform the source texture coordinate before
	// sampling: src = uv*Scale + Bias. Identity is (1,1) and (0,0).
	Scale [2]float64
	Bias  [2]float64
}

// NewFalloffMaterial builds the metaballs composite material.
func NewFalloffMaterial(base gputypes.Color, radius, smoothness float64) *Material {
	return &Material{
		Kind:       MaterialFalloff,
		Base:       base,
		Radius:     radius,
		Smoothness: smoothness,
		Scale:      [2]float64{1, 1},
	}
}

// NewBlitMaterial builds an identity pass-through material.
func NewBlitMaterial() *Material {
	return &Material{
		Kind:  MaterialBlit,
		Base:  gputypes.Color{R: 1, G: 1, B: 1, A: 1},
		Scale: [2]float64{1, 1},
	}
}

// Identity reports whether the scale/bias transform is the identity.
func (m *Material) Identity() bool {
	return m.Scale == [2]float64{1, 1} && m.Bias == [2]float64{0, 0}
}

// materialUniformSize is the byte size of the packed parameter block:
// three 16-byte rows (base color; radius, smoothness, pad; scale, bias).
const materialUniformSize = 48

// Uniforms packs the material parameters into the fixed std140-compatible
// layout the GPU shaders declare, little-endian float32.
func (m *Material) Uniforms() [materialUniformSize]byte {
	var buf [materialUniformSize]byte
	putF32 := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	}
	putF32(0, m.Base.R)
	putF32(4, m.Base.G)
	putF32(8, m.Base.B)
	putF32(12, m.Base.A)
	putF32(16, m.Radius)
	putF32(20, m.Smoothness)
	// buf[24:32] padding
	putF32(32, m.Scale[0])
	putF32(36, m.Scale[1])
	putF32(40, m.Bias[0])
	putF32(44, m.Bias[1])
	return buf
}
