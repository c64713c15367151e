package dither

import "image/color"

// RGB is a pixel sample with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// RGBA is a stage output. The stage always produces A == 1.
type RGBA struct {
	R, G, B, A float32
}

// RGB returns the color channels of c without alpha.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// FromColor converts a standard color.Color to an RGB sample.
// Premultiplied input is un-premultiplied; fully transparent input is black.
func FromColor(c color.Color) RGB {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGB{}
	}
	fa := float32(a)
	return RGB{
		R: float32(r) / fa,
		G: float32(g) / fa,
		B: float32(b) / fa,
	}
}

// unitToByte maps [0, 1] to [0, 255] with rounding and clamping.
func unitToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
