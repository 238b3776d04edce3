package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gr/program"
)

// solidProgram is the program every supported batch is drawn with.
const solidProgram = "solid"

// vertexStride is position (float32x2) plus color (float32x4).
const vertexStride = 24

// uniformSize is the solid program's uniform block: view (mat3x3, three
// 16-byte columns), viewport (vec2) padded to 16, color (vec4).
const uniformSize = 80

// pipelineKey identifies a render pipeline. Every field feeds the
// pipeline descriptor.
type pipelineKey struct {
	format        gputypes.TextureFormat
	stencilFormat gputypes.TextureFormat
	samples       uint32
	blend         gputypes.BlendState
	writeMask     gputypes.ColorWriteMask
	stencil       gputypes.DepthStencilState
}

// PipelineCache creates render pipelines for the solid program on demand
// and keeps them until Destroy.
type PipelineCache struct {
	device hal.Device

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	layout        hal.PipelineLayout
	pipelines     map[pipelineKey]hal.RenderPipeline
}

// NewPipelineCache creates an empty cache. Shaders are compiled by the
// first Get.
func NewPipelineCache(device hal.Device) *PipelineCache {
	return &PipelineCache{
		device:    device,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
}

// Len returns the number of pipelines created.
func (c *PipelineCache) Len() int { return len(c.pipelines) }

// init compiles the solid program and creates the shared layouts. The
// SPIR-V from programs is passed along when available; backends pick the
// form they consume.
func (c *PipelineCache) init(programs *program.Cache) error {
	if c.shader != nil {
		return nil
	}
	src := hal.ShaderSource{}
	if programs != nil {
		p, err := programs.Get(solidProgram)
		if err != nil {
			return err
		}
		src.WGSL, src.SPIRV = p.Source, p.SPIRV
	} else {
		wgsl, err := program.Source(solidProgram)
		if err != nil {
			return err
		}
		src.WGSL = wgsl
	}

	shader, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gr_solid_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("compile solid shader: %w", err)
	}
	uniformLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gr_solid_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStagesVertexFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		c.device.DestroyShaderModule(shader)
		return fmt.Errorf("create uniform bind group layout: %w", err)
	}
	layout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gr_solid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{uniformLayout},
	})
	if err != nil {
		c.device.DestroyBindGroupLayout(uniformLayout)
		c.device.DestroyShaderModule(shader)
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	c.shader, c.uniformLayout, c.layout = shader, uniformLayout, layout
	return nil
}

// Get returns the pipeline for key, creating it on first use.
func (c *PipelineCache) Get(key pipelineKey) (hal.RenderPipeline, error) {
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}
	if c.shader == nil {
		return nil, fmt.Errorf("wgpu: pipeline cache used before init")
	}

	blend := key.blend
	desc := &hal.RenderPipelineDescriptor{
		Label:  "gr_solid_pipeline",
		Layout: c.layout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: vertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    key.format,
				Blend:     &blend,
				WriteMask: key.writeMask,
			}},
		},
		Multisample: gputypes.MultisampleState{Count: key.samples, Mask: 0xFFFFFFFF},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	}
	if key.stencilFormat != gputypes.TextureFormatUndefined {
		desc.DepthStencil = halDepthStencil(key.stencil, key.stencilFormat)
	}

	p, err := c.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	c.pipelines[key] = p
	return p, nil
}

// Destroy releases every pipeline, the layouts and the shader.
func (c *PipelineCache) Destroy() {
	for k, p := range c.pipelines {
		c.device.DestroyRenderPipeline(p)
		delete(c.pipelines, k)
	}
	if c.layout != nil {
		c.device.DestroyPipelineLayout(c.layout)
		c.layout = nil
	}
	if c.uniformLayout != nil {
		c.device.DestroyBindGroupLayout(c.uniformLayout)
		c.uniformLayout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
}

// passthroughStencil leaves the stencil buffer alone. Pipelines drawn into
// a pass with a stencil attachment need a matching depth-stencil state
// even when they do not use it.
func passthroughStencil(format gputypes.TextureFormat) gputypes.DepthStencilState {
	face := gputypes.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      gputypes.StencilOperationKeep,
	}
	return gputypes.DepthStencilState{
		Format:       format,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: face,
		StencilBack:  face,
	}
}

func halDepthStencil(ds gputypes.DepthStencilState, format gputypes.TextureFormat) *hal.DepthStencilState {
	return &hal.DepthStencilState{
		Format:           format,
		DepthCompare:     gputypes.CompareFunctionAlways,
		StencilFront:     halStencilFace(ds.StencilFront),
		StencilBack:      halStencilFace(ds.StencilBack),
		StencilReadMask:  ds.StencilReadMask,
		StencilWriteMask: ds.StencilWriteMask,
	}
}

func halStencilFace(f gputypes.StencilFaceState) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     f.Compare,
		FailOp:      halStencilOp(f.FailOp),
		DepthFailOp: halStencilOp(f.DepthFailOp),
		PassOp:      halStencilOp(f.PassOp),
	}
}

func halStencilOp(op gputypes.StencilOperation) hal.StencilOperation {
	switch op {
	case gputypes.StencilOperationZero:
		return hal.StencilOperationZero
	case gputypes.StencilOperationReplace:
		return hal.StencilOperationReplace
	case gputypes.StencilOperationInvert:
		return hal.StencilOperationInvert
	case gputypes.StencilOperationIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case gputypes.StencilOperationDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case gputypes.StencilOperationIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case gputypes.StencilOperationDecrementWrap:
		return hal.StencilOperationDecrementWrap
	}
	return hal.StencilOperationKeep
}
