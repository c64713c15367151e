//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fortressfx/dither"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const acceleratorName = "dither-wgpu"

// fenceTimeout bounds how long a frame may wait for the GPU.
const fenceTimeout = 5 * time.Second

// DitherAccelerator runs the dither stage as a wgpu/hal compute shader.
// It implements the dither.GPUAccelerator interface.
//
// Each frame is packed into a storage buffer, transformed in place by one
// dispatch of 8x8 workgroups and copied back through a staging buffer.
type DitherAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ dither.GPUAccelerator = (*DitherAccelerator)(nil)

// Name returns the accelerator name.
func (a *DitherAccelerator) Name() string { return acceleratorName }

// Init opens a Vulkan device. Failure is not an error: the accelerator stays
// registered and every frame falls back to the CPU until a device provider
// is set.
func (a *DitherAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("dither-gpu: GPU init failed, using CPU fallback", "err", err)
		a.releaseOwned()
	}
	return nil
}

// Ready reports whether a device and pipeline are available.
func (a *DitherAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// SetLogger implements the optional logger propagation interface.
func (a *DitherAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Close releases GPU resources. Shared devices are left to their owner.
func (a *DitherAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if a.externalDevice {
		a.device = nil
		a.instance = nil
	} else {
		a.releaseOwned()
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (a *DitherAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("dither-gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("dither-gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("dither-gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice {
		a.releaseOwned()
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("dither-gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("dither-gpu: switched to shared GPU device")
	return nil
}

// Dither transforms target in place. It returns dither.ErrFallbackToCPU when
// no device is available or the target is malformed; target is only written
// on success.
func (a *DitherAccelerator) Dither(target dither.RenderTarget, s dither.Settings, cs dither.ColorSpace) error {
	if err := validateTarget(target); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return dither.ErrFallbackToCPU
	}
	return a.dispatch(target, s, cs)
}

func validateTarget(t dither.RenderTarget) error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: empty target %dx%d", dither.ErrFallbackToCPU, t.Width, t.Height)
	}
	if t.Stride < t.Width*4 || len(t.Data) < (t.Height-1)*t.Stride+t.Width*4 {
		return fmt.Errorf("%w: target buffer too small for %dx%d stride %d",
			dither.ErrFallbackToCPU, t.Width, t.Height, t.Stride)
	}
	return nil
}

func (a *DitherAccelerator) dispatch(target dither.RenderTarget, s dither.Settings, cs dither.ColorSpace) error {
	w, h := uint32(target.Width), uint32(target.Height) //nolint:gosec // dimensions validated positive
	pixelBufSize := uint64(w) * uint64(h) * 4
	packed := packPixelsForGPU(target.Data, target.Width, target.Height, target.Stride)
	params := NewDitherParams(s, w, h, cs).Bytes()

	uniformBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_params", Size: uint64(len(params)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer a.device.DestroyBuffer(uniformBuf)

	storageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storageBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(uniformBuf, 0, params)
	a.queue.WriteBuffer(storageBuf, 0, packed)

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "dither_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(params))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	readback, err := a.encodeAndSubmit(bindGroup, storageBuf, stagingBuf, w, h, pixelBufSize)
	if err != nil {
		return err
	}
	unpackPixelsFromGPU(readback, target.Data, target.Width, target.Height, target.Stride)
	slogger().Debug("dither-gpu: frame done", "width", w, "height", h, "intensity", s.Intensity)
	return nil
}

func (a *DitherAccelerator) encodeAndSubmit(
	bindGroup hal.BindGroup, storageBuf, stagingBuf hal.Buffer,
	w, h uint32, pixelBufSize uint64,
) ([]byte, error) {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "dither_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("dither"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "dither_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

func (a *DitherAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("dither-gpu: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *DitherAccelerator) createPipelines() error {
	if err := ValidateParamsLayout(); err != nil {
		return err
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "dither",
		Source: hal.ShaderSource{WGSL: ditherShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile dither shader: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dither_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "dither_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "dither_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	slogger().Debug("dither-gpu: compute pipeline created")
	return nil
}

func (a *DitherAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// releaseOwned destroys a device and instance this accelerator created.
func (a *DitherAccelerator) releaseOwned() {
	a.destroyPipelines()
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.queue = nil
}
