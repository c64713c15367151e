//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.

//go:embed shaders/dither.wgsl
var ditherShaderSource string

//go:embed shaders/dither_pass.wgsl
var ditherPassShaderSource string

// ComputeShaderSource returns the WGSL of the compute variant.
func ComputeShaderSource() string { return ditherShaderSource }

// PassShaderSource returns the WGSL of the full-screen fragment variant.
func PassShaderSource() string { return ditherPassShaderSource }

// CompileSPIRV compiles WGSL source to SPIR-V words for backends that take
// SPIR-V input.
func CompileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
