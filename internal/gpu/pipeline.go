// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/falloff.wgsl
var falloffShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

// materialUniformSize is the byte size of the MaterialParams uniform
// block: base color + falloff params + scale/bias, three vec4 rows.
const materialUniformSize = 48

// targetFormat is the color format of graph transients and camera
// targets on this executor.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// depthFormat matches the camera depth buffer the composite passes
// attach read-only.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// compositePipelines holds the falloff and blit render pipelines plus
// the layouts they share. Both pipelines bind the same group: the
// material uniform at binding 0 and the layer texture at binding 1.
type compositePipelines struct {
	falloffShader hal.ShaderModule
	blitShader    hal.ShaderModule
	bindLayout    hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	falloff       hal.RenderPipeline
	blit          hal.RenderPipeline
}

// createPipelines compiles both WGSL programs to SPIR-V and builds the
// composite pipelines. The depth state mirrors the shared camera depth
// buffer: attached, never written, never tested away (a fullscreen
// composite covers every pixel).
func createPipelines(device hal.Device) (*compositePipelines, error) {
	p := &compositePipelines{}

	falloffSPIRV, err := compileShaderToSPIRV(falloffShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile falloff shader: %w", err)
	}
	if p.falloffShader, err = createShaderModule(device, "layerfx_falloff_shader", falloffSPIRV); err != nil {
		return nil, fmt.Errorf("create falloff module: %w", err)
	}

	blitSPIRV, err := compileShaderToSPIRV(blitShaderSource)
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("compile blit shader: %w", err)
	}
	if p.blitShader, err = createShaderModule(device, "layerfx_blit_shader", blitSPIRV); err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create blit module: %w", err)
	}

	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "layerfx_composite_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "layerfx_composite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	p.falloff, err = createCompositePipeline(device, "layerfx_falloff_pipeline",
		p.pipeLayout, p.falloffShader, &premulBlend)
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create falloff pipeline: %w", err)
	}

	// The blit replaces the destination outright, no blending.
	p.blit, err = createCompositePipeline(device, "layerfx_blit_pipeline",
		p.pipeLayout, p.blitShader, nil)
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create blit pipeline: %w", err)
	}

	return p, nil
}

// createCompositePipeline builds one fullscreen-triangle pipeline over
// the shared layout.
func createCompositePipeline(device hal.Device, label string, layout hal.PipelineLayout,
	shader hal.ShaderModule, blend *gputypes.BlendState) (hal.RenderPipeline, error) {
	return device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      gputypes.CompareFunctionAlways,
			StencilFront: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilBack: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilReadMask:  0x00,
			StencilWriteMask: 0x00,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// destroy releases pipeline resources in reverse creation order. Safe on
// a partially constructed set.
func (p *compositePipelines) destroy(device hal.Device) {
	if p.blit != nil {
		device.DestroyRenderPipeline(p.blit)
		p.blit = nil
	}
	if p.falloff != nil {
		device.DestroyRenderPipeline(p.falloff)
		p.falloff = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.blitShader != nil {
		device.DestroyShaderModule(p.blitShader)
		p.blitShader = nil
	}
	if p.falloffShader != nil {
		device.DestroyShaderModule(p.falloffShader)
		p.falloffShader = nil
	}
}
