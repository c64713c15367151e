//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/fortressfx/dither"
)

// ErrLayoutMismatch is returned when a Go uniform struct does not match the
// layout declared in WGSL.
var ErrLayoutMismatch = errors.New("gpu: uniform layout mismatch")

// DitherParams is the compute shader uniform (WGSL struct DitherParams).
// Uniform structs are padded to a multiple of 16 bytes.
type DitherParams struct {
	Intensity  float32
	Oscillate  float32
	Width      uint32
	Height     uint32
	ColorSpace uint32
	_          [3]uint32
}

// PassParams is the fragment pass uniform (WGSL struct PassParams).
type PassParams struct {
	Intensity float32
	Oscillate float32
	_         [2]float32
}

const (
	ditherParamsSize = 32
	passParamsSize   = 16
)

// fieldLayout is one WGSL member: its name and byte offset.
type fieldLayout struct {
	name   string
	offset uintptr
}

// wgslDitherParams and wgslPassParams mirror the member offsets in
// shaders/dither.wgsl and shaders/dither_pass.wgsl.
var (
	wgslDitherParams = []fieldLayout{
		{"intensity", 0}, {"oscillate", 4}, {"width", 8}, {"height", 12}, {"color_space", 16},
	}
	wgslPassParams = []fieldLayout{
		{"intensity", 0}, {"oscillate", 4},
	}
)

// ValidateParamsLayout checks the Go uniform structs against the WGSL
// layouts. Pipelines call it once at creation.
func ValidateParamsLayout() error {
	var dp DitherParams
	if err := checkLayout("DitherParams", unsafe.Sizeof(dp), ditherParamsSize, wgslDitherParams, []uintptr{
		unsafe.Offsetof(dp.Intensity),
		unsafe.Offsetof(dp.Oscillate),
		unsafe.Offsetof(dp.Width),
		unsafe.Offsetof(dp.Height),
		unsafe.Offsetof(dp.ColorSpace),
	}); err != nil {
		return err
	}

	var pp PassParams
	return checkLayout("PassParams", unsafe.Sizeof(pp), passParamsSize, wgslPassParams, []uintptr{
		unsafe.Offsetof(pp.Intensity),
		unsafe.Offsetof(pp.Oscillate),
	})
}

func checkLayout(name string, size, wantSize uintptr, want []fieldLayout, got []uintptr) error {
	if size != wantSize {
		return fmt.Errorf("%w: %s is %d bytes, shader expects %d", ErrLayoutMismatch, name, size, wantSize)
	}
	if size%16 != 0 {
		return fmt.Errorf("%w: %s size %d is not 16-byte aligned", ErrLayoutMismatch, name, size)
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: %s has %d members, shader expects %d", ErrLayoutMismatch, name, len(got), len(want))
	}
	for i, f := range want {
		if got[i] != f.offset {
			return fmt.Errorf("%w: %s.%s at offset %d, shader expects %d",
				ErrLayoutMismatch, name, f.name, got[i], f.offset)
		}
	}
	return nil
}

// NewDitherParams builds the compute uniform for a frame.
func NewDitherParams(s dither.Settings, w, h uint32, cs dither.ColorSpace) DitherParams {
	return DitherParams{
		Intensity:  s.Intensity,
		Oscillate:  s.Oscillate,
		Width:      w,
		Height:     h,
		ColorSpace: uint32(cs),
	}
}

// Bytes serializes p in the std140 layout the shader reads.
func (p DitherParams) Bytes() []byte {
	b := make([]byte, ditherParamsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(p.Intensity))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Oscillate))
	binary.LittleEndian.PutUint32(b[8:], p.Width)
	binary.LittleEndian.PutUint32(b[12:], p.Height)
	binary.LittleEndian.PutUint32(b[16:], p.ColorSpace)
	return b
}

// NewPassParams builds the fragment pass uniform.
func NewPassParams(s dither.Settings) PassParams {
	return PassParams{Intensity: s.Intensity, Oscillate: s.Oscillate}
}

// Bytes serializes p in the layout the shader reads.
func (p PassParams) Bytes() []byte {
	b := make([]byte, passParamsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(p.Intensity))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Oscillate))
	return b
}

// packPixelsForGPU packs RGBA8 rows into one u32 per pixel (r in the low
// byte). stride is the source row pitch in bytes.
func packPixelsForGPU(data []uint8, width, height, stride int) []byte {
	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		for x := 0; x < width; x++ {
			s := x * 4
			packed := uint32(row[s]) | uint32(row[s+1])<<8 | uint32(row[s+2])<<16 | uint32(row[s+3])<<24
			binary.LittleEndian.PutUint32(out[(y*width+x)*4:], packed)
		}
	}
	return out
}

// unpackPixelsFromGPU is the inverse of packPixelsForGPU.
func unpackPixelsFromGPU(packed []byte, dst []uint8, width, height, stride int) {
	for y := 0; y < height; y++ {
		row := dst[y*stride:]
		for x := 0; x < width; x++ {
			val := binary.LittleEndian.Uint32(packed[(y*width+x)*4:])
			d := x * 4
			row[d+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
			row[d+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
			row[d+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
			row[d+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
		}
	}
}
