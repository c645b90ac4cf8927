package layerfx

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/layerfx/graph"
)

var (
	// ErrNoMaterial is returned when the composite draw runs without a
	// material. The pass itself does not pre-validate the material; the
	// executor's binding layer surfaces the violation.
	ErrNoMaterial = errors.New("layerfx: no material bound for composite")

	// ErrUnsupportedExecutor is returned when the executor running the
	// graph does not implement the drawing services a pass records
	// against.
	ErrUnsupportedExecutor = errors.New("layerfx: executor does not implement required drawing service")
)

// ListDrawer is the executor service the layer render pass records
// against: draw the pass's renderer list into its color attachment,
// testing against the shared depth attachment.
type ListDrawer interface {
	DrawList(pc *graph.PassContext) error
}

// MaterialBlitter is the executor service the composite pass records
// against: a full-screen draw sampling src through the material onto the
// pass's color attachment.
type MaterialBlitter interface {
	BlitMaterial(pc *graph.PassContext, m *Material, src graph.TextureHandle) error
}

// tempFormat is the transient target's pixel format. The falloff
// composite needs an alpha channel, so the temp target is always RGBA
// regardless of the camera target's format.
const tempFormat = gputypes.TextureFormatRGBA8Unorm

// Pass renders a filtered layer to a transient target and composites it
// back through a material. A Pass keeps only its construction-time state
// (filter, material reference, event); everything per-frame arrives
// through Record's FrameContext.
type Pass struct {
	filter   FilterSettings
	material *Material
	event    PassEvent
	log      *slog.Logger
}

// NewPass builds a pass over the given immutable filter. The material is
// held by reference and never copied; the event tags where the host
// should run the pass within a frame.
func NewPass(filter FilterSettings, material *Material, event PassEvent) *Pass {
	return &Pass{filter: filter, material: material, event: event}
}

// Filter returns the pass's immutable filter settings.
func (p *Pass) Filter() FilterSettings { return p.filter }

// Event returns the pass's insertion timing.
func (p *Pass) Event() PassEvent { return p.event }

// SetLogger routes the pass's skip diagnostics to l instead of the
// package logger.
func (p *Pass) SetLogger(l *slog.Logger) { p.log = l }

func (p *Pass) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return Logger()
}

// Record declares this frame's two sub-passes into the builder, or
// declares nothing when the frame cannot support the effect. Skips are
// frame-local and never propagate: the next frame re-evaluates from
// scratch.
//
// The recorded shape is always the same two passes:
//
//	layer:     read camera color (ordering only), write temp color,
//	           shared depth attachment, draw the filtered renderer list
//	composite: read temp, write camera color, same depth attachment,
//	           full-screen material blit with identity scale/bias
//
// The temp descriptor is re-derived from the camera resolution on every
// call, so a resolution change simply requests a differently sized
// transient from the arena.
func (p *Pass) Record(fc *FrameContext, b *graph.Builder) {
	cam := fc.Camera
	if cam.Backbuffer {
		// Compositing onto the presentation buffer is structurally
		// unsupported. Expected, so no diagnostic.
		return
	}
	if !cam.Color.Valid() || !cam.Depth.Valid() {
		p.logger().Warn("layerfx: skipping frame, camera targets invalid",
			"frame", fc.Frame,
			"color", cam.Color.Valid(),
			"depth", cam.Depth.Valid())
		return
	}

	tmp := b.CreateTexture(graph.TextureDesc{
		Label:  "layerfx temp",
		Width:  cam.Width,
		Height: cam.Height,
		Format: tempFormat,
	})
	if !tmp.Valid() {
		p.logger().Warn("layerfx: skipping frame, temp target unavailable",
			"frame", fc.Frame,
			"width", cam.Width,
			"height", cam.Height)
		return
	}

	list := b.CreateRendererList(fc.Cull.Filter(p.filter))

	b.AddPass("layerfx layer").
		Read(cam.Color).
		WriteColor(tmp).
		DepthAttachment(cam.Depth).
		UseRendererList(list).
		Record(func(pc *graph.PassContext) error {
			drawer, ok := pc.Executor().(ListDrawer)
			if !ok {
				return ErrUnsupportedExecutor
			}
			return drawer.DrawList(pc)
		})

	material := p.material
	b.AddPass("layerfx composite").
		Read(tmp).
		WriteColor(cam.Color).
		DepthAttachment(cam.Depth).
		Record(func(pc *graph.PassContext) error {
			blitter, ok := pc.Executor().(MaterialBlitter)
			if !ok {
				return ErrUnsupportedExecutor
			}
			return blitter.BlitMaterial(pc, material, tmp)
		})
}
