package layerfx

import "github.com/gogpu/layerfx/graph"

// Camera describes the active camera's render targets for one frame, as
// owned by the host. Color and Depth are executor-specific backings (an
// *image.RGBA on the software path, texture view wrappers on the GPU
// path); RenderFrame imports them into the frame's graph.
type Camera struct {
	Width  uint32
	Height uint32

	// Color and Depth are the camera's target surfaces. A nil backing
	// marks the surface invalid for this frame.
	Color any
	Depth any

	// Backbuffer marks the color target as the presentation buffer.
	// Compositing onto the presentation buffer is structurally
	// unsupported: it has no depth partner and no safe read-back path,
	// so passes skip such frames outright.
	Backbuffer bool
}

// CameraTarget is the frame-graph view of a Camera: the same resolution
// with the surfaces already imported as frame-scoped handles. An invalid
// handle means the corresponding backing was missing or zero-sized.
type CameraTarget struct {
	Width  uint32
	Height uint32

	Color graph.TextureHandle
	Depth graph.TextureHandle

	Backbuffer bool
}

// FrameContext carries the per-frame state a pass records against. It is
// built fresh every frame and passed explicitly; passes hold no ambient
// frame state between Record calls.
type FrameContext struct {
	// Frame is the frame number, matching the builder's handle stamp.
	Frame uint64

	// Camera is the active camera's imported target state.
	Camera CameraTarget

	// Cull is the host's visibility results for the active camera.
	Cull CullResults
}
