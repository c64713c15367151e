package dither

import "github.com/fortressfx/dither/internal/color"

// ColorSpace selects how 8-bit pixel values become stage inputs.
type ColorSpace uint8

const (
	// ColorSpaceEncoded feeds stored values to the stage as v/255.
	ColorSpaceEncoded ColorSpace = iota

	// ColorSpaceLinear decodes sRGB to linear light before the stage and
	// re-encodes afterwards. This matches an engine whose post-process
	// samples an sRGB render target.
	ColorSpaceLinear
)

// String returns the color space name.
func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceEncoded:
		return "encoded"
	case ColorSpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}

func (cs ColorSpace) codec() color.Codec {
	if cs == ColorSpaceLinear {
		return color.Linear
	}
	return color.Encoded
}
