// Package layerfx renders a filtered subset of scene geometry to an
// offscreen target and composites it back onto the camera's color target
// through a configurable material, the classic "metaballs" falloff look.
//
// # Overview
//
// The package is built around a small retained frame graph (package graph):
// every frame, the host creates a graph.Builder, imports the camera's color
// and depth surfaces, and asks each enqueued Pass to record itself. A Pass
// records two dependent sub-passes:
//
//  1. Layer render: draw the items selected by a FilterSettings (layer
//     bitmask + render-queue range + forward shader tags) into a transient
//     color target that shares the camera's depth buffer.
//  2. Composite blit: a full-screen draw that samples the transient target
//     and writes the camera's color target through the configured Material.
//
// The graph compiler orders the two by their read-after-write dependency,
// culls passes nothing observes, and hands transient texture lifetime to
// the executor's arena. Executors exist for CPU rendering (softrender) and
// the wgpu HAL (internal/gpu).
//
// # Quick Start
//
//	mat := layerfx.NewFalloffMaterial(gputypes.Color{R: 1, A: 1}, 0.8, 0.3)
//	feat, err := layerfx.NewFeature(
//	    layerfx.WithMaterial(mat),
//	    layerfx.WithLayers(layerfx.LayerMask(1<<2)),
//	    layerfx.WithQueueRange(layerfx.QueueTransparent),
//	)
//	if err != nil {
//	    // a Feature without a material is a configuration error
//	}
//
//	var frame layerfx.FrameList
//	feat.Enqueue(&frame)
//	err = layerfx.RenderFrame(frameNum, cam, cull, &frame, executor)
//
// # Failure Model
//
// Nothing in the per-frame path panics or aborts the host frame loop.
// A pass that finds its resources unusable (backbuffer target, invalid
// color/depth handle, zero-sized temp target) skips the whole frame's work
// and the scene renders without the effect. Diagnostics go through the
// package logger, silent by default; see SetLogger.
package layerfx
