// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"
)

// Builder and compile errors.
var (
	// ErrHandleFrameMismatch is returned when a pass uses a handle minted
	// for a different frame.
	ErrHandleFrameMismatch = errors.New("graph: handle belongs to a different frame")

	// ErrInvalidHandle is returned when a pass declares a dependency on
	// the zero handle.
	ErrInvalidHandle = errors.New("graph: invalid handle")

	// ErrReadWriteConflict is returned when a pass both reads and
	// color-writes the same texture. Ping-pong through a second texture
	// instead; a single sub-pass must never sample its own attachment.
	ErrReadWriteConflict = errors.New("graph: pass reads and writes the same texture")

	// ErrCompiled is returned when a builder is reused after Compile.
	ErrCompiled = errors.New("graph: builder already compiled")
)

// RecordFunc is a pass's record callback. It runs during Execute with the
// pass's declared resources resolved into the PassContext.
type RecordFunc func(*PassContext) error

// passDecl is one declared pass.
type passDecl struct {
	name        string
	reads       []uint32
	colorWrite  uint32
	depthAttach uint32
	list        uint32 // renderer list index, 1-based, 0 = none
	sideEffects bool
	record      RecordFunc
}

// Builder collects pass and resource declarations for one frame.
// Create one per camera per frame with NewBuilder.
type Builder struct {
	frame    uint64
	textures []textureResource // index 0 reserved for the invalid handle
	lists    [][]DrawPayload   // index 0 reserved
	passes   []*passDecl
	compiled bool
	err      error
}

// NewBuilder creates a builder for the given frame number. The frame number
// stamps every handle the builder mints, so stale handles from earlier
// frames are rejected at declaration time.
func NewBuilder(frame uint64) *Builder {
	return &Builder{
		frame:    frame,
		textures: make([]textureResource, 1),
		lists:    make([][]DrawPayload, 1),
	}
}

// Frame returns the frame number this builder records.
func (b *Builder) Frame() uint64 {
	return b.frame
}

// CreateTexture declares a transient texture scoped to this frame. The
// backing store is realized by the executor at the texture's first use and
// recycled after its last use. An invalid (zero-sized) descriptor returns
// the zero handle; callers are expected to check Valid and skip.
func (b *Builder) CreateTexture(desc TextureDesc) TextureHandle {
	if !desc.Valid() {
		return TextureHandle{}
	}
	b.textures = append(b.textures, textureResource{desc: desc})
	return TextureHandle{index: uint32(len(b.textures) - 1), frame: b.frame}
}

// ImportTexture borrows an externally owned surface (typically the camera's
// color or depth target) into the frame. The graph never realizes or
// recycles imported backings; writes to them count as observable side
// effects. A nil backing or invalid descriptor returns the zero handle.
func (b *Builder) ImportTexture(desc TextureDesc, backing any) TextureHandle {
	if backing == nil || !desc.Valid() {
		return TextureHandle{}
	}
	b.textures = append(b.textures, textureResource{
		desc:     desc,
		imported: true,
		backing:  backing,
	})
	return TextureHandle{index: uint32(len(b.textures) - 1), frame: b.frame}
}

// CreateRendererList registers a filtered draw list for this frame.
// An empty list is valid: the pass still executes against an empty set.
func (b *Builder) CreateRendererList(items []DrawPayload) RendererListHandle {
	b.lists = append(b.lists, items)
	return RendererListHandle{index: uint32(len(b.lists) - 1), frame: b.frame}
}

// AddPass declares a pass and returns its builder. Passes execute in
// dependency order; declaration order is preserved among passes with no
// hazard between them.
func (b *Builder) AddPass(name string) *PassBuilder {
	p := &passDecl{name: name}
	b.passes = append(b.passes, p)
	return &PassBuilder{b: b, p: p}
}

// setErr records the first declaration error; Compile reports it.
func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// checkTexture validates a texture handle against this builder's frame.
func (b *Builder) checkTexture(h TextureHandle, what string) bool {
	if !h.Valid() {
		b.setErr(fmt.Errorf("%s: %w", what, ErrInvalidHandle))
		return false
	}
	if h.frame != b.frame || int(h.index) >= len(b.textures) {
		b.setErr(fmt.Errorf("%s: %w (got frame %d, want %d)", what, ErrHandleFrameMismatch, h.frame, b.frame))
		return false
	}
	return true
}

// PassBuilder declares one pass's dependencies and record callback.
type PassBuilder struct {
	b *Builder
	p *passDecl
}

// Read declares a sampled (or ordering-only) read of a texture.
func (pb *PassBuilder) Read(h TextureHandle) *PassBuilder {
	if pb.b.checkTexture(h, pb.p.name+": read") {
		pb.p.reads = append(pb.p.reads, h.index)
	}
	return pb
}

// WriteColor declares the pass's color attachment.
func (pb *PassBuilder) WriteColor(h TextureHandle) *PassBuilder {
	if pb.b.checkTexture(h, pb.p.name+": write color") {
		pb.p.colorWrite = h.index
	}
	return pb
}

// DepthAttachment declares a shared, read-only depth attachment. The graph
// orders against prior depth writers but never schedules a clear or store;
// the depth surface stays owned by the rest of the frame.
func (pb *PassBuilder) DepthAttachment(h TextureHandle) *PassBuilder {
	if pb.b.checkTexture(h, pb.p.name+": depth attachment") {
		pb.p.depthAttach = h.index
	}
	return pb
}

// UseRendererList binds a renderer list to the pass.
func (pb *PassBuilder) UseRendererList(h RendererListHandle) *PassBuilder {
	if !h.Valid() {
		pb.b.setErr(fmt.Errorf("%s: renderer list: %w", pb.p.name, ErrInvalidHandle))
		return pb
	}
	if h.frame != pb.b.frame || int(h.index) >= len(pb.b.lists) {
		pb.b.setErr(fmt.Errorf("%s: renderer list: %w", pb.p.name, ErrHandleFrameMismatch))
		return pb
	}
	pb.p.list = h.index
	return pb
}

// SideEffects marks the pass as observable even if nothing reads its
// writes, exempting it from culling.
func (pb *PassBuilder) SideEffects() *PassBuilder {
	pb.p.sideEffects = true
	return pb
}

// Record sets the pass's record callback.
func (pb *PassBuilder) Record(fn RecordFunc) *PassBuilder {
	pb.p.record = fn
	return pb
}

// Graph is a compiled, executable frame.
type Graph struct {
	frame    uint64
	textures []textureResource
	lists    [][]DrawPayload
	passes   []*passDecl
	order    []int // schedule: indices into passes, live passes only
}

// Compile validates the declarations and produces an executable schedule.
//
// Validation rejects a pass that reads and color-writes the same texture
// (the ping-pong invariant) and surfaces any handle error recorded during
// declaration. Culling removes passes whose color writes nothing observes:
// liveness seeds are passes that write imported textures or are marked
// SideEffects, and propagates backward through read-after-write edges.
//
// The returned schedule preserves declaration order; declaration order is
// already a valid topological order because every dependency edge points
// at an earlier pass, so reordering is never required, only verification
// and culling.
func (b *Builder) Compile() (*Graph, error) {
	if b.compiled {
		return nil, ErrCompiled
	}
	b.compiled = true
	if b.err != nil {
		return nil, b.err
	}

	for _, p := range b.passes {
		if p.colorWrite != 0 {
			for _, r := range p.reads {
				if r == p.colorWrite {
					return nil, fmt.Errorf("%s: texture %q: %w",
						p.name, b.textures[p.colorWrite].desc.Label, ErrReadWriteConflict)
				}
			}
		}
	}

	// lastWriter[tex] = pass index of the most recent color writer, in
	// declaration order. Each reader depends on that writer.
	deps := make([][]int, len(b.passes))
	lastWriter := make(map[uint32]int)
	for i, p := range b.passes {
		for _, r := range p.reads {
			if w, ok := lastWriter[r]; ok {
				deps[i] = append(deps[i], w)
			}
		}
		if p.depthAttach != 0 {
			if w, ok := lastWriter[p.depthAttach]; ok {
				deps[i] = append(deps[i], w)
			}
		}
		if p.colorWrite != 0 {
			lastWriter[p.colorWrite] = i
		}
	}

	// Liveness: seed with side-effecting passes, walk dependencies.
	live := make([]bool, len(b.passes))
	var mark func(i int)
	mark = func(i int) {
		if live[i] {
			return
		}
		live[i] = true
		for _, d := range deps[i] {
			mark(d)
		}
	}
	for i, p := range b.passes {
		if p.sideEffects || (p.colorWrite != 0 && b.textures[p.colorWrite].imported) {
			mark(i)
		}
	}

	g := &Graph{
		frame:    b.frame,
		textures: b.textures,
		lists:    b.lists,
		passes:   b.passes,
	}
	for i := range b.passes {
		if live[i] {
			g.order = append(g.order, i)
		}
	}
	g.computeLifetimes()
	return g, nil
}

// computeLifetimes records, per transient texture, the schedule positions
// of its first and last use so Execute can realize and recycle precisely.
func (g *Graph) computeLifetimes() {
	for i := range g.textures {
		g.textures[i].firstUse = -1
		g.textures[i].lastUse = -1
	}
	touch := func(tex uint32, pos int) {
		t := &g.textures[tex]
		if t.firstUse < 0 {
			t.firstUse = pos
		}
		t.lastUse = pos
	}
	for pos, pi := range g.order {
		p := g.passes[pi]
		for _, r := range p.reads {
			touch(r, pos)
		}
		if p.colorWrite != 0 {
			touch(p.colorWrite, pos)
		}
		if p.depthAttach != 0 {
			touch(p.depthAttach, pos)
		}
	}
}

// PassNames returns the scheduled pass names in execution order.
// Useful for asserting graph shape in tests and diagnostics.
func (g *Graph) PassNames() []string {
	names := make([]string, len(g.order))
	for i, pi := range g.order {
		names[i] = g.passes[pi].name
	}
	return names
}

// PassCount returns the number of scheduled (live) passes.
func (g *Graph) PassCount() int {
	return len(g.order)
}

// Execute runs the schedule against the executor: transient textures are
// realized at first use and released after last use; each pass's record
// callback runs with its resources resolved. If the executor implements
// FrameLifecycle, BeginFrame and EndFrame bracket the schedule.
//
// The first error aborts execution; transients realized so far are still
// released back to the executor.
func (g *Graph) Execute(ex Executor) (err error) {
	if fl, ok := ex.(FrameLifecycle); ok {
		if err := fl.BeginFrame(g.frame); err != nil {
			return fmt.Errorf("graph: begin frame %d: %w", g.frame, err)
		}
		defer func() {
			if endErr := fl.EndFrame(); endErr != nil && err == nil {
				err = fmt.Errorf("graph: end frame %d: %w", g.frame, endErr)
			}
		}()
	}

	realized := make([]uint32, 0, 4)
	defer func() {
		for _, tex := range realized {
			t := &g.textures[tex]
			if t.backing != nil {
				ex.ReleaseTexture(t.desc, t.backing)
				t.backing = nil
			}
		}
	}()

	for pos, pi := range g.order {
		p := g.passes[pi]

		// Realize transients first used by this pass.
		for _, tex := range g.passTextures(p) {
			t := &g.textures[tex]
			if t.imported || t.backing != nil || t.firstUse != pos {
				continue
			}
			backing, rerr := ex.RealizeTexture(t.desc)
			if rerr != nil {
				return fmt.Errorf("graph: %s: realize %q: %w", p.name, t.desc.Label, rerr)
			}
			t.backing = backing
			realized = append(realized, tex)
		}

		if p.record != nil {
			pc := g.passContext(pos, p, ex)
			if rerr := p.record(pc); rerr != nil {
				return fmt.Errorf("graph: %s: %w", p.name, rerr)
			}
		}

		// Recycle transients last used by this pass.
		for _, tex := range g.passTextures(p) {
			t := &g.textures[tex]
			if t.imported || t.lastUse != pos {
				continue
			}
			if t.backing != nil {
				ex.ReleaseTexture(t.desc, t.backing)
				t.backing = nil
			}
			for k, r := range realized {
				if r == tex {
					realized = append(realized[:k], realized[k+1:]...)
					break
				}
			}
		}
	}
	return nil
}

// passTextures returns the texture indices a pass touches.
func (g *Graph) passTextures(p *passDecl) []uint32 {
	texs := make([]uint32, 0, len(p.reads)+2)
	texs = append(texs, p.reads...)
	if p.colorWrite != 0 {
		texs = append(texs, p.colorWrite)
	}
	if p.depthAttach != 0 {
		texs = append(texs, p.depthAttach)
	}
	return texs
}

// passContext resolves a pass's declared resources for its record callback.
func (g *Graph) passContext(pos int, p *passDecl, ex Executor) *PassContext {
	pc := &PassContext{
		name:  p.name,
		frame: g.frame,
		ex:    ex,
		reads: make(map[uint32]any, len(p.reads)),
	}
	if p.colorWrite != 0 {
		t := &g.textures[p.colorWrite]
		pc.color = t.backing
		pc.width = t.desc.Width
		pc.height = t.desc.Height
		// A transient written here for the first time starts cleared.
		pc.colorClear = !t.imported && t.firstUse == pos
	}
	if p.depthAttach != 0 {
		pc.depth = g.textures[p.depthAttach].backing
	}
	for _, r := range p.reads {
		pc.reads[r] = g.textures[r].backing
	}
	if p.list != 0 {
		pc.items = g.lists[p.list]
	}
	return pc
}
