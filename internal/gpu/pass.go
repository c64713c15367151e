//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/fortressfx/dither"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PassPipeline draws the dither stage as a full-screen fragment pass.
//
// The host engine owns the offscreen color texture and the render pass. It
// builds a bind group against Layout() with:
//
//	binding 0: UniformEntry()  (PassParams)
//	binding 1: the source texture view (texture_2d<f32>)
//	binding 2: Sampler()       (nearest, clamp to edge)
//
// and calls RecordDraw inside its pass. The source view must not be the pass
// color attachment.
type PassPipeline struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	uniformBuf hal.Buffer
}

// NewPassPipeline creates the pipeline for color targets of the given format.
func NewPassPipeline(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*PassPipeline, error) {
	p := &PassPipeline{device: device, queue: queue, format: format}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// Layout returns the group 0 bind group layout.
func (p *PassPipeline) Layout() hal.BindGroupLayout { return p.bindLayout }

// Sampler returns the sampler for binding 2.
func (p *PassPipeline) Sampler() hal.Sampler { return p.sampler }

// Format returns the color target format the pipeline was built for.
func (p *PassPipeline) Format() gputypes.TextureFormat { return p.format }

// UniformEntry returns the binding 0 entry for the host's bind group.
func (p *PassPipeline) UniformEntry() gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: passParamsSize},
	}
}

// SetSettings uploads the Settings for the next draw.
func (p *PassPipeline) SetSettings(s dither.Settings) {
	p.queue.WriteBuffer(p.uniformBuf, 0, NewPassParams(s).Bytes())
}

// RecordDraw issues the full-screen triangle with the host's bind group.
func (p *PassPipeline) RecordDraw(rp hal.RenderPassEncoder, bindGroup hal.BindGroup) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
}

func (p *PassPipeline) createPipeline() error {
	if err := ValidateParamsLayout(); err != nil {
		return err
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "dither_pass",
		Source: hal.ShaderSource{WGSL: ditherPassShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile dither_pass shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: PassParams (uniform buffer, fragment)
	//   Binding 1: source texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dither_pass_layout",
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
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create dither_pass layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "dither_pass_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create dither_pass pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Nearest filtering: one texel per fragment, no blending between
	// neighbours before the threshold test.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "dither_pass_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create dither_pass sampler: %w", err)
	}
	p.sampler = sampler

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_pass_params", Size: passParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create dither_pass uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf
	p.queue.WriteBuffer(p.uniformBuf, 0, NewPassParams(dither.Settings{}).Bytes())

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "dither_pass_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
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
	if err != nil {
		return fmt.Errorf("create dither_pass pipeline: %w", err)
	}
	p.pipeline = pipeline

	slogger().Debug("dither-gpu: pass pipeline created", "format", p.format)
	return nil
}

// Destroy releases all pipeline resources in reverse creation order.
func (p *PassPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
