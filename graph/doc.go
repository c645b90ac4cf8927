// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graph implements a small retained frame graph: a per-frame,
// declared dependency graph of render passes and the transient resources
// they read and write.
//
// A frame is built in three phases:
//
//  1. Declaration. A [Builder] collects passes. Each pass declares the
//     textures it reads, the color target it writes, an optional shared
//     depth attachment, and a record callback bound to those resources.
//     Transient textures come from [Builder.CreateTexture]; externally
//     owned surfaces (the camera's color and depth targets) are borrowed
//     via [Builder.ImportTexture].
//
//  2. Compilation. [Builder.Compile] validates the declarations, derives
//     read-after-write ordering edges, culls passes whose output nothing
//     observes, and computes transient resource lifetimes.
//
//  3. Execution. [Graph.Execute] walks the schedule, realizes transient
//     textures through an [Executor] at first use, invokes each pass's
//     record callback with a [PassContext], and releases transients after
//     their last use.
//
// All handles are frame-scoped: a [TextureHandle] or [RendererListHandle]
// minted for frame N is rejected by a frame N+1 builder. Backing stores for
// transient textures are pooled by (width, height, format) in an [Arena],
// so a steady-state frame allocates nothing new.
//
// The package is not safe for concurrent use: one Builder and one Execute
// per camera per frame, driven from a single goroutine.
package graph
