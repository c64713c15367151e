package main

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/fortressfx/dither"
)

func TestUpscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out := upscale(src, 3)
	if got := out.Bounds(); got != image.Rect(0, 0, 6, 6) {
		t.Fatalf("bounds = %v, want 6x6", got)
	}
	for y := range 6 {
		for x := range 6 {
			want := src.At(x/3, y/3)
			r1, g1, b1, a1 := out.At(x, y).RGBA()
			r2, g2, b2, a2 := want.RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, out.At(x, y), want)
			}
		}
	}
}

func TestEnableGPUFollowsReadiness(t *testing.T) {
	err := enableGPU()
	switch {
	case dither.AcceleratorReady():
		if err != nil {
			t.Errorf("enableGPU() = %v with a ready accelerator", err)
		}
	case dither.Accelerator() == nil:
		if !errors.Is(err, errNoAccelerator) {
			t.Errorf("enableGPU() = %v, want errNoAccelerator", err)
		}
	default:
		if !errors.Is(err, errNoDevice) {
			t.Errorf("enableGPU() = %v, want errNoDevice for an accelerator without a device", err)
		}
	}
}
