//go:build !nogpu

// Package gpu runs the dither stage on the GPU through wgpu/hal.
//
// Two programs share one definition of the threshold and blend:
//
//   - DitherAccelerator: a compute shader that transforms a CPU frame held
//     in a storage buffer and reads it back. It implements
//     dither.GPUAccelerator and is registered by the public gpu package.
//   - PassPipeline: a full-screen fragment shader for hosts that own the
//     render pass. The host binds its offscreen color texture and draws
//     three vertices.
//
// The Bayer level is computed from the low three bits of each coordinate
// instead of a lookup table, so neither shader indexes an array.
//
// Uniform layouts are checked against the Go structs once at pipeline
// creation (ValidateParamsLayout).
package gpu
