// Package color converts 8-bit channel values to and from the [0, 1] floats
// the dither stage works on.
//
// Two codecs are provided. The encoded codec maps a byte b to b/255 as
// stored. The linear codec first removes the sRGB transfer curve, so the
// threshold decisions see the same values a GPU sees when it samples an
// sRGB render target. Both directions use lookup tables built at init.
package color
