// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import "github.com/gogpu/gputypes"

// ArenaKey identifies a pool bucket: transient textures are recycled only
// between frames that request the same resolution and format.
type ArenaKey struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// Arena is a free-list pool of texture backing stores keyed by
// (width, height, format). Executors use it so that a steady-state frame
// reuses last frame's transient allocations, and a resolution change
// simply populates a new bucket while the old one drains.
//
// Arena is not safe for concurrent use; each executor owns one.
type Arena[T any] struct {
	// New allocates a fresh backing store for a descriptor.
	New func(desc TextureDesc) (T, error)

	// Reset prepares a recycled store for reuse (e.g. clears it).
	// Optional; nil means recycled stores are handed back as-is.
	Reset func(v T)

	free map[ArenaKey][]T
}

// NewArena creates an arena with the given allocation function.
func NewArena[T any](alloc func(desc TextureDesc) (T, error)) *Arena[T] {
	return &Arena[T]{
		New:  alloc,
		free: make(map[ArenaKey][]T),
	}
}

// Acquire returns a backing store for the descriptor, recycling a free one
// when the bucket has any.
func (a *Arena[T]) Acquire(desc TextureDesc) (T, error) {
	key := desc.Key()
	if list := a.free[key]; len(list) > 0 {
		v := list[len(list)-1]
		a.free[key] = list[:len(list)-1]
		if a.Reset != nil {
			a.Reset(v)
		}
		return v, nil
	}
	return a.New(desc)
}

// Release returns a backing store to its bucket for reuse.
func (a *Arena[T]) Release(desc TextureDesc, v T) {
	key := desc.Key()
	a.free[key] = append(a.free[key], v)
}

// FreeCount returns the number of pooled stores in the bucket for key.
func (a *Arena[T]) FreeCount(key ArenaKey) int {
	return len(a.free[key])
}

// Drain empties the pool and returns everything that was pooled, so the
// owner can destroy GPU resources on shutdown.
func (a *Arena[T]) Drain() []T {
	var all []T
	for key, list := range a.free {
		all = append(all, list...)
		delete(a.free, key)
	}
	return all
}
