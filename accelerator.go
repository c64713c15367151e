package dither

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this frame.
// The caller should transparently fall back to the CPU stage.
var ErrFallbackToCPU = errors.New("dither: falling back to CPU")

// RenderTarget provides pixel buffer access for GPU input and output.
// Data is straight-alpha RGBA8, 4 bytes per pixel, laid out row by row with
// the given Stride. The accelerator transforms it in place.
type RenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// GPUAccelerator is an optional GPU provider for the dither stage.
//
// When registered via RegisterAccelerator, Effect tries the accelerator first.
// If it returns ErrFallbackToCPU or any error, the frame is processed on the
// CPU instead with identical results.
//
// Users opt in via blank import:
//
//	import _ "github.com/fortressfx/dither/gpu"
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// Dither runs the stage over every pixel of target in place.
	// Returns ErrFallbackToCPU if the target cannot be processed on the GPU.
	Dither(target RenderTarget, s Settings, cs ColorSpace) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider (e.g., a game window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// ReadinessReporter is an optional interface for accelerators that stay
// registered without a usable device. Effect skips accelerators that report
// not ready without touching the frame.
type ReadinessReporter interface {
	Ready() bool
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace and close
// the previous one. Init is called during registration; if it fails the
// accelerator is not registered and the error is returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("dither: accelerator must not be nil")
	}
	propagateLogger(a, Logger())
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("dither: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator removes and closes the registered accelerator, if any.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered GPU accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// AcceleratorReady reports whether a registered accelerator can take frames.
// Accelerators that do not implement ReadinessReporter count as ready.
func AcceleratorReady() bool {
	a := Accelerator()
	return a != nil && ready(a)
}

func ready(a GPUAccelerator) bool {
	if r, ok := a.(ReadinessReporter); ok {
		return r.Ready()
	}
	return true
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. If no accelerator is registered or it does not support device
// sharing, this is a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
