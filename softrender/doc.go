// Package softrender executes compiled layerfx frame graphs on the CPU.
//
// Backing stores are *image.RGBA images pooled through the graph arena.
// Draw payloads implementing the Drawable interface render into the pass's
// color attachment; other payload kinds are skipped. The material blit
// reproduces the GPU falloff math per pixel in premultiplied alpha space.
//
// The software path exists for headless tests, golden images and
// environments without a GPU device; it mirrors the GPU executor's
// observable behavior, not its performance.
package softrender
