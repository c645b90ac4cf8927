// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TextureDesc describes a graph texture. For transient textures the
// descriptor is the pooling key; for imported textures it records the
// dimensions of the borrowed surface.
type TextureDesc struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the pixel format.
	Format gputypes.TextureFormat
}

// Valid reports whether the descriptor describes a realizable texture.
// Zero-sized descriptors are invalid and yield the zero TextureHandle.
func (d TextureDesc) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Key returns the arena pooling key for this descriptor.
func (d TextureDesc) Key() ArenaKey {
	return ArenaKey{Width: d.Width, Height: d.Height, Format: d.Format}
}

// String returns a compact description for diagnostics.
func (d TextureDesc) String() string {
	return fmt.Sprintf("%s %dx%d %v", d.Label, d.Width, d.Height, d.Format)
}

// TextureHandle is an opaque, frame-scoped reference to a graph texture.
// The zero value is the invalid handle. Handles minted for frame N are
// rejected by a frame N+1 builder.
type TextureHandle struct {
	index uint32
	frame uint64
}

// Valid reports whether the handle refers to a texture.
// It does not check the frame stamp; the builder does that on use.
func (h TextureHandle) Valid() bool {
	return h.index != 0
}

// Frame returns the frame the handle was minted for.
func (h TextureHandle) Frame() uint64 {
	return h.frame
}

// RendererListHandle is an opaque, frame-scoped reference to a filtered
// set of draw items. The zero value is the invalid handle.
type RendererListHandle struct {
	index uint32
	frame uint64
}

// Valid reports whether the handle refers to a renderer list.
func (h RendererListHandle) Valid() bool {
	return h.index != 0
}

// Frame returns the frame the handle was minted for.
func (h RendererListHandle) Frame() uint64 {
	return h.frame
}

// DrawPayload is an executor-interpreted draw item. The graph treats
// payloads as opaque; each executor draws the payload kinds it understands
// and skips the rest.
type DrawPayload = any

// textureResource is the builder-side record for one declared texture.
type textureResource struct {
	desc     TextureDesc
	imported bool

	// backing is the realized store. Imported textures carry the caller's
	// backing from declaration; transients are realized during Execute.
	backing any

	// firstUse and lastUse are schedule positions, computed by Compile.
	// Only meaningful for transient textures on live passes.
	firstUse int
	lastUse  int
}
