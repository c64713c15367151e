//go:build !nogpu

// Package gpu registers the wgpu dither accelerator.
//
// Import this package to run dither.Effect frames on the GPU through a
// wgpu/hal compute shader:
//
//	import _ "github.com/fortressfx/dither/gpu"
//
// If GPU initialization fails (no Vulkan adapter available) the accelerator
// stays registered but every frame falls back to the CPU stage.
package gpu

import (
	"errors"

	"github.com/fortressfx/dither"
	gpuimpl "github.com/fortressfx/dither/internal/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilProvider is returned when a nil device provider is passed.
var ErrNilProvider = errors.New("gpu: nil device provider")

// ErrNoHAL is returned when a provider does not expose wgpu/hal handles.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// PassPipeline is the full-screen fragment pipeline for hosts that own their
// render pass.
type PassPipeline = gpuimpl.PassPipeline

func init() {
	if err := dither.RegisterAccelerator(&gpuimpl.DitherAccelerator{}); err != nil {
		dither.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// halProvider is the optional HAL access a device provider may offer.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// SetDeviceProvider makes the accelerator share the GPU device of an
// external provider (e.g. the game window) instead of opening its own.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return dither.SetAcceleratorDeviceProvider(provider)
}

// NewPassPipeline builds a PassPipeline on the provider's device for its
// surface format.
func NewPassPipeline(provider gpucontext.DeviceProvider) (*PassPipeline, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHAL
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNoHAL
	}
	return gpuimpl.NewPassPipeline(device, queue, provider.SurfaceFormat())
}
