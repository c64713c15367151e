package dither

// MatrixSize is the side length of the ordered-dither threshold matrix.
const MatrixSize = 8

// matrixMask reduces a coordinate to its position inside the matrix tile.
// Two's complement makes x&7 the non-negative residue for negative x too.
const matrixMask = MatrixSize - 1

// bayer8 is the classic 8x8 Bayer ordering, row-major, y then x.
// Each 2x2 sub-block is recursively interleaved as [[0,2],[3,1]].
var bayer8 = [MatrixSize * MatrixSize]uint8{
	0, 32, 8, 40, 2, 34, 10, 42,
	48, 16, 56, 24, 50, 18, 58, 26,
	12, 44, 4, 36, 14, 46, 6, 38,
	60, 28, 52, 20, 62, 30, 54, 22,
	3, 35, 11, 43, 1, 33, 9, 41,
	51, 19, 59, 27, 49, 17, 57, 25,
	15, 47, 7, 39, 13, 45, 5, 37,
	63, 31, 55, 23, 61, 29, 53, 21,
}

// thresholds holds bayer8 normalized to k/64. Built once, never written again.
var thresholds = func() [MatrixSize * MatrixSize]float32 {
	var t [MatrixSize * MatrixSize]float32
	for i, k := range bayer8 {
		t[i] = float32(k) / float32(len(bayer8))
	}
	return t
}()

// ThresholdIndex returns the flat matrix index for pixel (x, y):
// (y mod 8) * 8 + (x mod 8).
func ThresholdIndex(x, y int) int {
	return (y&matrixMask)*MatrixSize + (x & matrixMask)
}

// Threshold returns the ordered-dither threshold for pixel (x, y).
// The result is k/64 for some k in [0, 63] and depends only on
// (x mod 8, y mod 8).
func Threshold(x, y int) float32 {
	return thresholds[ThresholdIndex(x, y)]
}

// BayerMatrix returns a copy of the normalized threshold matrix in
// row-major order.
func BayerMatrix() [MatrixSize * MatrixSize]float32 {
	return thresholds
}

// BayerLevels returns a copy of the integer matrix levels (0..63).
func BayerLevels() [MatrixSize * MatrixSize]uint8 {
	return bayer8
}
