// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/layerfx"
	"github.com/gogpu/layerfx/graph"
)

// ErrNoHALDevice is returned when a device provider does not expose the
// wgpu HAL types this executor needs.
var ErrNoHALDevice = errors.New("gpu: device provider does not expose HAL types")

// fenceTimeout bounds the per-frame GPU wait.
const fenceTimeout = 5 * time.Second

// Texture is a GPU backing store: a hal texture together with its view.
// Borrowed camera targets carry only the view; the executor never
// destroys what it did not create.
type Texture struct {
	tex  hal.Texture
	view hal.TextureView
}

// View returns the texture's view for attachment or binding.
func (t *Texture) View() hal.TextureView { return t.view }

// BorrowView wraps an externally owned texture view (typically the
// camera's color or depth target) as a graph backing.
func BorrowView(view hal.TextureView) *Texture {
	return &Texture{view: view}
}

// Drawer is a renderer-list payload this executor can draw: it records
// its own draw calls into an open render pass. Payloads of other kinds
// are skipped.
type Drawer interface {
	RecordDraw(rp hal.RenderPassEncoder) error
}

// Executor runs compiled layerfx graphs against a HAL device. Each frame
// is batched into a single command encoder between BeginFrame and
// EndFrame and submitted behind a fence.
//
// Executor is not safe for concurrent use; drive one frame at a time.
type Executor struct {
	device    hal.Device
	queue     hal.Queue
	arena     *graph.Arena[*Texture]
	pipelines *compositePipelines
	log       *slog.Logger

	// Per-frame state, valid between BeginFrame and EndFrame.
	encoder   hal.CommandEncoder
	frameBufs []hal.Buffer
	frameBGs  []hal.BindGroup
}

var (
	_ graph.Executor          = (*Executor)(nil)
	_ graph.FrameLifecycle    = (*Executor)(nil)
	_ layerfx.ListDrawer      = (*Executor)(nil)
	_ layerfx.MaterialBlitter = (*Executor)(nil)
)

// New creates an executor over a HAL device and queue. Pipelines are
// compiled eagerly so shader errors surface at construction, not midway
// through a frame.
func New(device hal.Device, queue hal.Queue) (*Executor, error) {
	pipelines, err := createPipelines(device)
	if err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}
	e := &Executor{
		device:    device,
		queue:     queue,
		pipelines: pipelines,
		log:       layerfx.Logger(),
	}
	e.arena = graph.NewArena(e.createTexture)
	e.log.Info("gpu: composite pipelines ready")
	return e, nil
}

// NewFromProvider creates an executor from a shared device provider
// (e.g. gogpu.App). The executor receives the device from the host, it
// does not create one. The provider must additionally expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Executor, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALDevice)
	}
	return New(device, queue)
}

// SetLogger routes the executor's diagnostics to l.
func (e *Executor) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// Destroy releases the pooled textures and pipelines. The executor must
// not be used afterwards.
func (e *Executor) Destroy() {
	for _, t := range e.arena.Drain() {
		e.destroyTexture(t)
	}
	if e.pipelines != nil {
		e.pipelines.destroy(e.device)
		e.pipelines = nil
	}
}

// createTexture allocates a transient color target.
func (e *Executor) createTexture(desc graph.TextureDesc) (*Texture, error) {
	tex, err := e.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("create transient texture: %w", err)
	}
	view, err := e.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		e.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create transient view: %w", err)
	}
	return &Texture{tex: tex, view: view}, nil
}

func (e *Executor) destroyTexture(t *Texture) {
	if t.view != nil {
		e.device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		e.device.DestroyTexture(t.tex)
	}
}

// RealizeTexture acquires a pooled transient texture.
func (e *Executor) RealizeTexture(desc graph.TextureDesc) (any, error) {
	return e.arena.Acquire(desc)
}

// ReleaseTexture returns a transient to the pool. GPU contents are not
// scrubbed; the first render pass writing a recycled transient clears it
// on load.
func (e *Executor) ReleaseTexture(desc graph.TextureDesc, backing any) {
	t, ok := backing.(*Texture)
	if !ok {
		e.log.Warn("gpu: released foreign backing", "texture", desc.String())
		return
	}
	e.arena.Release(desc, t)
}

// BeginFrame opens the frame's command encoder.
func (e *Executor) BeginFrame(frame uint64) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "layerfx_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(fmt.Sprintf("layerfx_frame_%d", frame)); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	e.encoder = encoder
	return nil
}

// EndFrame submits the recorded frame and waits for the fence, then
// releases per-frame buffers and bind groups.
func (e *Executor) EndFrame() (err error) {
	encoder := e.encoder
	e.encoder = nil
	defer e.releaseFrameResources()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := e.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

func (e *Executor) releaseFrameResources() {
	for _, bg := range e.frameBGs {
		e.device.DestroyBindGroup(bg)
	}
	e.frameBGs = e.frameBGs[:0]
	for _, buf := range e.frameBufs {
		e.device.DestroyBuffer(buf)
	}
	e.frameBufs = e.frameBufs[:0]
}

// createAndUploadBuffer creates a buffer and writes data through the
// queue. The buffer is destroyed at EndFrame.
func (e *Executor) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	e.queue.WriteBuffer(buf, 0, data)
	e.frameBufs = append(e.frameBufs, buf)
	return buf, nil
}

// attachments builds the render pass descriptor for a graph pass: its
// color target with the compiled load op, plus the shared depth buffer
// attached read-only when declared.
func (e *Executor) attachments(label string, pc *graph.PassContext) (*hal.RenderPassDescriptor, error) {
	color, ok := pc.ColorTarget().(*Texture)
	if !ok {
		return nil, fmt.Errorf("gpu: %s color backing is %T, want *Texture", pc.Name(), pc.ColorTarget())
	}
	loadOp := gputypes.LoadOpLoad
	if pc.ColorLoadClear() {
		loadOp = gputypes.LoadOpClear
	}
	desc := &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       color.view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	}
	if depth, ok := pc.DepthTarget().(*Texture); ok {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:           depth.view,
			DepthLoadOp:    gputypes.LoadOpLoad,
			DepthStoreOp:   gputypes.StoreOpStore,
			StencilLoadOp:  gputypes.LoadOpLoad,
			StencilStoreOp: gputypes.StoreOpStore,
		}
	}
	return desc, nil
}

// DrawList opens a render pass on the graph pass's attachments and lets
// each Drawer payload record itself.
func (e *Executor) DrawList(pc *graph.PassContext) error {
	desc, err := e.attachments("layerfx_layer_pass", pc)
	if err != nil {
		return err
	}
	rp := e.encoder.BeginRenderPass(desc)
	drawn := 0
	for _, item := range pc.Items() {
		d, ok := item.(Drawer)
		if !ok {
			continue
		}
		if err := d.RecordDraw(rp); err != nil {
			rp.End()
			return fmt.Errorf("gpu: %s: record draw: %w", pc.Name(), err)
		}
		drawn++
	}
	rp.End()
	e.log.Debug("gpu: drew renderer list", "pass", pc.Name(),
		"items", len(pc.Items()), "drawn", drawn)
	return nil
}

// BlitMaterial records the fullscreen composite: material uniforms and
// the layer texture in one bind group, three vertices, no vertex buffer.
func (e *Executor) BlitMaterial(pc *graph.PassContext, m *layerfx.Material, src graph.TextureHandle) error {
	if m == nil {
		return layerfx.ErrNoMaterial
	}
	srcTex, ok := pc.Source(src).(*Texture)
	if !ok {
		return fmt.Errorf("gpu: %s source backing is %T, want *Texture", pc.Name(), pc.Source(src))
	}

	uniforms := m.Uniforms()
	uniformBuf, err := e.createAndUploadBuffer("layerfx_material_uniform", uniforms[:],
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("gpu: create material uniform: %w", err)
	}

	bindGroup, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "layerfx_composite_bind",
		Layout: e.pipelines.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: materialUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: srcTex.view.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create composite bind group: %w", err)
	}
	e.frameBGs = append(e.frameBGs, bindGroup)

	desc, err := e.attachments("layerfx_composite_pass", pc)
	if err != nil {
		return err
	}
	pipeline := e.pipelines.falloff
	if m.Kind == layerfx.MaterialBlit {
		pipeline = e.pipelines.blit
	}

	rp := e.encoder.BeginRenderPass(desc)
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	return nil
}
