package dither

// Apply runs the dither stage for a single pixel.
//
// The red channel is thresholded on its own value while green and blue are
// thresholded together on the unweighted luminance (r+g+b)/3. Both decisions
// use the same matrix threshold for (x, y). Each channel is then blended:
//
//	above: intensity + c*(1-intensity)
//	below: c*(1-intensity)
//
// Intensity 0 returns the input unchanged. Alpha is always 1.
// Apply is pure and safe to call from any number of goroutines.
func Apply(c RGB, x, y int, s Settings) RGBA {
	if s.Intensity == 0 {
		return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
	}

	t := Threshold(x, y)
	v := (c.R + c.G + c.B) / 3
	above := v > t
	aboveR := c.R > t

	inv := 1 - s.Intensity
	return RGBA{
		R: blendChannel(c.R, aboveR, s.Intensity, inv),
		G: blendChannel(c.G, above, s.Intensity, inv),
		B: blendChannel(c.B, above, s.Intensity, inv),
		A: 1,
	}
}

// Decisions returns the two threshold decisions Apply would make for c at
// (x, y): aboveR for the red channel and above for green and blue.
func Decisions(c RGB, x, y int) (aboveR, above bool) {
	t := Threshold(x, y)
	return c.R > t, (c.R+c.G+c.B)/3 > t
}

func blendChannel(c float32, above bool, intensity, inv float32) float32 {
	if above {
		return intensity + c*inv
	}
	return c * inv
}
