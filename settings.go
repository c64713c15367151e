package dither

import (
	"errors"
	"fmt"
	"math"
)

// ErrIntensityRange is returned by Settings.Validate when Intensity is
// outside [0, 1] or not a number.
var ErrIntensityRange = errors.New("dither: intensity out of range [0, 1]")

// Settings parameterizes the dither stage for one frame.
//
// Settings is a small value type. A frame receives one copy and every pixel
// of that frame reads the same copy; callers replace it wholesale between
// frames (see Controller).
type Settings struct {
	// Intensity blends the original color (0) toward the binary dithered
	// color (1). Exactly 0 bypasses the effect.
	Intensity float32

	// Oscillate is a modulation amplitude owned by the per-frame driver.
	// The pixel stage does not read it.
	Oscillate float32
}

// Bypass reports whether the effect is a pass-through for these settings.
func (s Settings) Bypass() bool {
	return s.Intensity == 0
}

// AddIntensity returns s with Intensity increased by delta and clamped to
// [0, 1].
func (s Settings) AddIntensity(delta float32) Settings {
	s.Intensity = clampUnit(s.Intensity + delta)
	return s
}

// Clamped returns s with Intensity clamped to [0, 1]. NaN becomes 0.
func (s Settings) Clamped() Settings {
	s.Intensity = clampUnit(s.Intensity)
	return s
}

// Validate reports whether s satisfies the stage's input contract.
// The stage itself never calls Validate.
func (s Settings) Validate() error {
	i := float64(s.Intensity)
	if math.IsNaN(i) || i < 0 || i > 1 {
		return fmt.Errorf("%w: %v", ErrIntensityRange, s.Intensity)
	}
	return nil
}

func clampUnit(v float32) float32 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
