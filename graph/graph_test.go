// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

func testDesc(label string, w, h uint32) TextureDesc {
	return TextureDesc{
		Label:  label,
		Width:  w,
		Height: h,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// recordingExecutor tracks realize/release calls and pass execution order.
type recordingExecutor struct {
	realized []string
	released []string
	begun    bool
	ended    bool
	failOn   string // descriptor label that fails RealizeTexture
}

func (e *recordingExecutor) RealizeTexture(desc TextureDesc) (any, error) {
	if e.failOn != "" && desc.Label == e.failOn {
		return nil, fmt.Errorf("no memory for %s", desc.Label)
	}
	e.realized = append(e.realized, desc.Label)
	return &struct{ label string }{desc.Label}, nil
}

func (e *recordingExecutor) ReleaseTexture(desc TextureDesc, backing any) {
	e.released = append(e.released, desc.Label)
}

func (e *recordingExecutor) BeginFrame(frame uint64) error {
	e.begun = true
	return nil
}

func (e *recordingExecutor) EndFrame() error {
	e.ended = true
	return nil
}

var (
	_ Executor       = (*recordingExecutor)(nil)
	_ FrameLifecycle = (*recordingExecutor)(nil)
)

func TestCreateTexture_InvalidDesc(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"zero width", 0, 64},
		{"zero height", 64, 0},
		{"zero both", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(1)
			h := b.CreateTexture(testDesc("tmp", tt.w, tt.h))
			if h.Valid() {
				t.Errorf("CreateTexture(%dx%d) returned valid handle", tt.w, tt.h)
			}
		})
	}
}

func TestImportTexture_NilBacking(t *testing.T) {
	b := NewBuilder(1)
	h := b.ImportTexture(testDesc("camera", 64, 64), nil)
	if h.Valid() {
		t.Error("ImportTexture(nil backing) returned valid handle")
	}
}

func TestHandleFrameStamp(t *testing.T) {
	b1 := NewBuilder(1)
	stale := b1.CreateTexture(testDesc("tmp", 8, 8))
	if got := stale.Frame(); got != 1 {
		t.Fatalf("Frame() = %d, want 1", got)
	}

	// A handle from frame 1 must be rejected by a frame 2 builder.
	b2 := NewBuilder(2)
	b2.AddPass("uses stale").Read(stale)
	if _, err := b2.Compile(); !errors.Is(err, ErrHandleFrameMismatch) {
		t.Errorf("Compile() error = %v, want ErrHandleFrameMismatch", err)
	}
}

func TestUseRendererList_HandleChecks(t *testing.T) {
	// The zero handle is invalid, same as the texture path; only a
	// handle minted for another frame is a frame mismatch.
	b := NewBuilder(1)
	b.AddPass("zero list").UseRendererList(RendererListHandle{})
	if _, err := b.Compile(); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Compile() error = %v, want ErrInvalidHandle", err)
	}

	b1 := NewBuilder(1)
	stale := b1.CreateRendererList([]DrawPayload{1})
	b2 := NewBuilder(2)
	b2.AddPass("stale list").UseRendererList(stale)
	if _, err := b2.Compile(); !errors.Is(err, ErrHandleFrameMismatch) {
		t.Errorf("Compile() error = %v, want ErrHandleFrameMismatch", err)
	}
}

func TestCompile_ReadWriteConflict(t *testing.T) {
	b := NewBuilder(1)
	tex := b.CreateTexture(testDesc("tmp", 8, 8))
	b.AddPass("self sample").Read(tex).WriteColor(tex).SideEffects()
	if _, err := b.Compile(); !errors.Is(err, ErrReadWriteConflict) {
		t.Errorf("Compile() error = %v, want ErrReadWriteConflict", err)
	}
}

func TestCompile_Twice(t *testing.T) {
	b := NewBuilder(1)
	if _, err := b.Compile(); err != nil {
		t.Fatalf("first Compile() error = %v", err)
	}
	if _, err := b.Compile(); !errors.Is(err, ErrCompiled) {
		t.Errorf("second Compile() error = %v, want ErrCompiled", err)
	}
}

func TestCompile_CullsUnobservedPasses(t *testing.T) {
	b := NewBuilder(1)
	camera := b.ImportTexture(testDesc("camera", 8, 8), &struct{}{})
	tmp := b.CreateTexture(testDesc("tmp", 8, 8))
	orphan := b.CreateTexture(testDesc("orphan", 8, 8))

	b.AddPass("dead").WriteColor(orphan)
	b.AddPass("layer").WriteColor(tmp)
	b.AddPass("composite").Read(tmp).WriteColor(camera)

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := []string{"layer", "composite"}
	got := g.PassNames()
	if len(got) != len(want) {
		t.Fatalf("PassNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PassNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompile_SideEffectsExemptFromCulling(t *testing.T) {
	b := NewBuilder(1)
	tmp := b.CreateTexture(testDesc("tmp", 8, 8))
	b.AddPass("readback").WriteColor(tmp).SideEffects()

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if g.PassCount() != 1 {
		t.Errorf("PassCount() = %d, want 1", g.PassCount())
	}
}

func TestExecute_OrderAndLifetimes(t *testing.T) {
	b := NewBuilder(7)
	camera := b.ImportTexture(testDesc("camera", 8, 8), &struct{}{})
	tmp := b.CreateTexture(testDesc("tmp", 8, 8))

	var order []string
	b.AddPass("layer").Read(camera).WriteColor(tmp).Record(func(pc *PassContext) error {
		order = append(order, pc.Name())
		if !pc.ColorLoadClear() {
			t.Error("layer pass: first use of transient should clear on load")
		}
		return nil
	})
	b.AddPass("composite").Read(tmp).WriteColor(camera).Record(func(pc *PassContext) error {
		order = append(order, pc.Name())
		if pc.ColorLoadClear() {
			t.Error("composite pass: imported target must load, not clear")
		}
		if pc.Source(tmp) == nil {
			t.Error("composite pass: temp source not resolved")
		}
		return nil
	})

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	ex := &recordingExecutor{}
	if err := g.Execute(ex); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(order) != 2 || order[0] != "layer" || order[1] != "composite" {
		t.Errorf("execution order = %v, want [layer composite]", order)
	}
	// Only the transient is realized; the imported camera target is not.
	if len(ex.realized) != 1 || ex.realized[0] != "tmp" {
		t.Errorf("realized = %v, want [tmp]", ex.realized)
	}
	// The transient is released after its last use (the composite pass).
	if len(ex.released) != 1 || ex.released[0] != "tmp" {
		t.Errorf("released = %v, want [tmp]", ex.released)
	}
	if !ex.begun || !ex.ended {
		t.Errorf("frame lifecycle: begun=%v ended=%v, want both true", ex.begun, ex.ended)
	}
}

func TestExecute_RealizeFailureReleasesNothingTwice(t *testing.T) {
	b := NewBuilder(1)
	camera := b.ImportTexture(testDesc("camera", 8, 8), &struct{}{})
	a := b.CreateTexture(testDesc("a", 8, 8))
	bad := b.CreateTexture(testDesc("bad", 8, 8))

	b.AddPass("p1").WriteColor(a)
	b.AddPass("p2").Read(a).WriteColor(bad)
	b.AddPass("p3").Read(bad).WriteColor(camera)

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	ex := &recordingExecutor{failOn: "bad"}
	if err := g.Execute(ex); err == nil {
		t.Fatal("Execute() succeeded, want realize failure")
	}
	// "a" was realized before the failure and must still be released.
	if len(ex.released) != 1 || ex.released[0] != "a" {
		t.Errorf("released = %v, want [a]", ex.released)
	}
}

func TestExecute_RecordErrorWrapsPassName(t *testing.T) {
	b := NewBuilder(1)
	camera := b.ImportTexture(testDesc("camera", 8, 8), &struct{}{})
	sentinel := errors.New("draw failed")
	b.AddPass("broken").WriteColor(camera).Record(func(*PassContext) error {
		return sentinel
	})

	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	err = g.Execute(&recordingExecutor{})
	if !errors.Is(err, sentinel) {
		t.Errorf("Execute() error = %v, want wrapped sentinel", err)
	}
}

func TestCreateRendererList_EmptyIsValid(t *testing.T) {
	b := NewBuilder(1)
	camera := b.ImportTexture(testDesc("camera", 8, 8), &struct{}{})
	list := b.CreateRendererList(nil)
	if !list.Valid() {
		t.Fatal("empty renderer list handle should be valid")
	}

	var itemCount = -1
	b.AddPass("layer").WriteColor(camera).UseRendererList(list).Record(func(pc *PassContext) error {
		itemCount = len(pc.Items())
		return nil
	})
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if err := g.Execute(&recordingExecutor{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if itemCount != 0 {
		t.Errorf("pass saw %d items, want 0", itemCount)
	}
}

func TestGraphShape_IdempotentAcrossFrames(t *testing.T) {
	build := func(frame uint64) *Graph {
		b := NewBuilder(frame)
		camera := b.ImportTexture(testDesc("camera", 32, 32), &struct{}{})
		tmp := b.CreateTexture(testDesc("tmp", 32, 32))
		b.AddPass("layer").Read(camera).WriteColor(tmp)
		b.AddPass("composite").Read(tmp).WriteColor(camera)
		g, err := b.Compile()
		if err != nil {
			t.Fatalf("frame %d: Compile() error = %v", frame, err)
		}
		return g
	}

	first := build(1).PassNames()
	for frame := uint64(2); frame < 5; frame++ {
		got := build(frame).PassNames()
		if len(got) != len(first) {
			t.Fatalf("frame %d: %v, want %v", frame, got, first)
		}
		for i := range first {
			if got[i] != first[i] {
				t.Errorf("frame %d: pass[%d] = %q, want %q", frame, i, got[i], first[i])
			}
		}
	}
}
