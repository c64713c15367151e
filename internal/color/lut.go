package color

import "math"

// unitLUT maps a byte to b/255.
var unitLUT [256]float32

// sRGBToLinearLUT maps an sRGB byte to linear float32 in [0, 1].
var sRGBToLinearLUT [256]float32

// linearToSRGBLUT maps a 12-bit quantized linear value to an sRGB byte.
// 4096 entries keep the round trip within one byte of the exact curve.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := 0; i < 256; i++ {
		unitLUT[i] = float32(i) / 255
		sRGBToLinearLUT[i] = float32(srgbToLinear(float64(i) / 255))
	}
	for i := 0; i < len(linearToSRGBLUT); i++ {
		s := linearToSRGB(float64(i) / float64(len(linearToSRGBLUT)-1))
		linearToSRGBLUT[i] = roundByte(s)
	}
}

// Unit converts a stored byte to [0, 1] without any transfer curve.
func Unit(b uint8) float32 {
	return unitLUT[b]
}

// Byte converts [0, 1] to a byte with rounding. Out-of-range input is clamped.
func Byte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// SRGBToLinearFast converts an sRGB byte to linear float32 via lookup.
func SRGBToLinearFast(s uint8) float32 {
	return sRGBToLinearLUT[s]
}

// LinearToSRGBFast converts linear float32 to an sRGB byte via lookup.
// Input is clamped to [0, 1].
func LinearToSRGBFast(l float32) uint8 {
	if l <= 0 {
		return linearToSRGBLUT[0]
	}
	if l >= 1 {
		return linearToSRGBLUT[len(linearToSRGBLUT)-1]
	}
	return linearToSRGBLUT[int(l*float32(len(linearToSRGBLUT)-1)+0.5)]
}

// SRGBToLinearSlow is the math.Pow reference for SRGBToLinearFast.
func SRGBToLinearSlow(s uint8) float32 {
	return float32(srgbToLinear(float64(s) / 255))
}

// LinearToSRGBSlow is the math.Pow reference for LinearToSRGBFast.
func LinearToSRGBSlow(l float32) uint8 {
	lf := float64(l)
	if lf < 0 {
		lf = 0
	}
	if lf > 1 {
		lf = 1
	}
	return roundByte(linearToSRGB(lf))
}

func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

func roundByte(s float64) uint8 {
	v := int(s*255 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	//nolint:gosec // G115: clamped to [0,255]
	return uint8(v)
}
