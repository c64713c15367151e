//go:build !nogpu

package main

import (
	"github.com/fortressfx/dither"
	_ "github.com/fortressfx/dither/gpu" // registers the wgpu accelerator
)

// enableGPU reports whether the wgpu accelerator opened a device.
func enableGPU() error {
	if dither.Accelerator() == nil {
		return errNoAccelerator
	}
	if !dither.AcceleratorReady() {
		return errNoDevice
	}
	return nil
}
