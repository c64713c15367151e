// Package dither provides an ordered-dithering post-process effect.
//
// # Overview
//
// The effect runs once per output pixel after a frame has been rendered. It
// compares the pixel against a fixed 8x8 Bayer threshold and blends the
// original color toward a binary dithered color by Settings.Intensity.
// Intensity 0 is an exact pass-through; intensity 1 gives pure 0/1 channels.
//
// # Quick Start
//
//	import "github.com/fortressfx/dither"
//
//	fx := dither.NewEffect()
//	defer fx.Close()
//
//	frame := dither.FromImage(img)
//	if err := fx.Apply(frame, frame, dither.Settings{Intensity: 0.5}); err != nil {
//	    return err
//	}
//	frame.SavePNG("out.png")
//
// # Execution
//
// The same stage is available as:
//   - Apply: a pure per-pixel function
//   - Effect: a frame driver over a tile-parallel worker pool
//   - a wgpu compute shader, enabled by importing github.com/fortressfx/dither/gpu
//   - a Kage shader for Ebitengine in integration/ebitenfx
//
// # Per-frame control
//
// Controller owns Settings across frames. Game logic pulses the intensity on
// events (damage), Update fades it back down, and a health-dependent
// oscillation keeps a low level of dithering pulsing. Snapshot returns the
// Settings the next frame should use.
//
// # Coordinate System
//
// Pixel (0, 0) is the top-left of the frame. The threshold pattern repeats
// every 8 pixels in both directions and is defined for negative coordinates.
package dither

// Version is the current version of the module.
const Version = "0.4.0"
