package color

// Codec converts stored channel bytes to stage inputs and back.
type Codec struct {
	decode func(uint8) float32
	encode func(float32) uint8
}

// Encoded is the identity codec: bytes are used as stored.
var Encoded = Codec{decode: Unit, encode: Byte}

// Linear decodes sRGB bytes to linear light and re-encodes the result.
var Linear = Codec{decode: SRGBToLinearFast, encode: LinearToSRGBFast}

// Decode converts one stored channel byte to [0, 1].
func (c Codec) Decode(b uint8) float32 {
	return c.decode(b)
}

// Encode converts one [0, 1] channel value to a stored byte.
func (c Codec) Encode(v float32) uint8 {
	return c.encode(v)
}
