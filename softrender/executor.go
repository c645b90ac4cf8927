// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softrender

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/layerfx"
	"github.com/gogpu/layerfx/graph"
)

// Executor runs compiled graphs on *image.RGBA backing stores. Transient
// textures come from a graph arena, so steady-state frames reuse the
// previous frame's allocations and a resolution change just opens a new
// pool bucket.
//
// Executor is not safe for concurrent use; drive one frame at a time.
type Executor struct {
	arena *graph.Arena[*image.RGBA]
	log   *slog.Logger
}

var (
	_ graph.Executor          = (*Executor)(nil)
	_ layerfx.ListDrawer      = (*Executor)(nil)
	_ layerfx.MaterialBlitter = (*Executor)(nil)
)

// New creates a software executor with an empty texture pool.
func New() *Executor {
	e := &Executor{log: layerfx.Logger()}
	e.arena = graph.NewArena(func(desc graph.TextureDesc) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height))), nil
	})
	// Recycled transients start cleared to transparent, same as a fresh
	// allocation.
	e.arena.Reset = func(img *image.RGBA) {
		clear(img.Pix)
	}
	return e
}

// SetLogger routes the executor's diagnostics to l.
func (e *Executor) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// RealizeTexture acquires a pooled image for a transient texture.
func (e *Executor) RealizeTexture(desc graph.TextureDesc) (any, error) {
	img, err := e.arena.Acquire(desc)
	if err != nil {
		return nil, err
	}
	e.log.Debug("softrender: realized transient", "texture", desc.String(),
		"pooled", e.arena.FreeCount(desc.Key()))
	return img, nil
}

// ReleaseTexture returns a transient image to the pool.
func (e *Executor) ReleaseTexture(desc graph.TextureDesc, backing any) {
	img, ok := backing.(*image.RGBA)
	if !ok {
		e.log.Warn("softrender: released non-image backing", "texture", desc.String())
		return
	}
	e.arena.Release(desc, img)
}

// PoolSize returns the number of pooled images matching the descriptor,
// for tests and diagnostics.
func (e *Executor) PoolSize(desc graph.TextureDesc) int {
	return e.arena.FreeCount(desc.Key())
}

// colorImage extracts a pass backing as an image, erroring on foreign
// backings (an imported texture from another executor, for example).
func colorImage(what string, backing any) (*image.RGBA, error) {
	img, ok := backing.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("softrender: %s backing is %T, want *image.RGBA", what, backing)
	}
	return img, nil
}
