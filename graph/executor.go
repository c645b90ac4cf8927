// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

// Executor realizes transient textures and carries out recorded passes.
// Implementations exist for CPU rendering (softrender) and for the wgpu
// HAL. Record callbacks reach executor-specific services by
// asserting the Executor to richer interfaces.
type Executor interface {
	// RealizeTexture allocates (or recycles) a backing store for a
	// transient texture. The returned backing is handed to pass record
	// callbacks through PassContext.
	RealizeTexture(desc TextureDesc) (any, error)

	// ReleaseTexture returns a transient backing store after its last use.
	ReleaseTexture(desc TextureDesc, backing any)
}

// FrameLifecycle is an optional Executor interface. Executors that batch
// work into a per-frame command stream (the GPU path) implement it to
// bracket the schedule with encoder setup and submission.
type FrameLifecycle interface {
	BeginFrame(frame uint64) error
	EndFrame() error
}

// PassContext resolves a pass's declared resources for its record
// callback. Backings are executor-specific: *image.RGBA on the CPU path,
// texture view wrappers on the GPU path.
type PassContext struct {
	name       string
	frame      uint64
	width      uint32
	height     uint32
	color      any
	colorClear bool
	depth      any
	reads      map[uint32]any
	items      []DrawPayload
	ex         Executor
}

// Name returns the pass name.
func (pc *PassContext) Name() string { return pc.name }

// Frame returns the frame number being executed.
func (pc *PassContext) Frame() uint64 { return pc.frame }

// Size returns the color attachment dimensions in pixels.
func (pc *PassContext) Size() (w, h uint32) { return pc.width, pc.height }

// ColorTarget returns the backing of the declared color attachment,
// or nil if the pass declared none.
func (pc *PassContext) ColorTarget() any { return pc.color }

// ColorLoadClear reports whether the color attachment should be cleared
// on load: true exactly when this pass is the first use of a transient
// target. Imported targets always load their existing contents.
func (pc *PassContext) ColorLoadClear() bool { return pc.colorClear }

// DepthTarget returns the backing of the shared depth attachment, or nil.
func (pc *PassContext) DepthTarget() any { return pc.depth }

// Source returns the backing of a declared read dependency.
// Returns nil if the handle was not declared as a read of this pass.
func (pc *PassContext) Source(h TextureHandle) any {
	if !h.Valid() {
		return nil
	}
	return pc.reads[h.index]
}

// Items returns the bound renderer list, or nil if none was declared.
func (pc *PassContext) Items() []DrawPayload { return pc.items }

// Executor returns the executor running this pass, for assertion to
// executor-specific service interfaces.
func (pc *PassContext) Executor() Executor { return pc.ex }
