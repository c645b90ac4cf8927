// Package gpu executes compiled layerfx frame graphs on the wgpu HAL.
//
// The executor batches each frame into one command encoder: graph record
// callbacks open hal render passes on their declared attachments, and
// EndFrame submits the whole frame behind a fence. Transient textures are
// pooled hal texture/view pairs keyed by (size, format).
//
// Shaders are authored in WGSL and compiled to SPIR-V through gogpu/naga
// at pipeline creation.
package gpu
