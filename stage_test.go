package dither

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		x, y int
		s    Settings
		want RGBA
	}{
		{
			name: "grey at origin half intensity",
			c:    RGB{0.5, 0.5, 0.5},
			s:    Settings{Intensity: 0.5},
			want: RGBA{0.75, 0.75, 0.75, 1},
		},
		{
			name: "white bypass",
			c:    RGB{1, 1, 1},
			x:    3, y: 5,
			s:    Settings{Intensity: 0},
			want: RGBA{1, 1, 1, 1},
		},
		{
			name: "black below highest threshold",
			c:    RGB{0, 0, 0},
			x:    0, y: 7,
			s:    Settings{Intensity: 0.8},
			want: RGBA{0, 0, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.c, tt.x, tt.y, tt.s)
			if !approxEqual(got.R, tt.want.R) || !approxEqual(got.G, tt.want.G) ||
				!approxEqual(got.B, tt.want.B) || got.A != tt.want.A {
				t.Errorf("Apply(%v, %d, %d, %v) = %v, want %v", tt.c, tt.x, tt.y, tt.s, got, tt.want)
			}
		})
	}
}

func TestApplyIdentityAtZero(t *testing.T) {
	s := Settings{Intensity: 0, Oscillate: 0.7}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := RGB{float32(x) / 7, float32(y) / 7, 0.33}
			got := Apply(c, x, y, s)
			if got.RGB() != c || got.A != 1 {
				t.Fatalf("Apply(%v, %d, %d) = %v, want exact input", c, x, y, got)
			}
		}
	}
}

func TestApplyBinaryAtFull(t *testing.T) {
	s := Settings{Intensity: 1}
	flag := func(b bool) float32 {
		if b {
			return 1
		}
		return 0
	}
	for y := -8; y < 16; y++ {
		for x := -8; x < 16; x++ {
			c := RGB{float32(x+8) / 23, float32(y+8) / 23, float32((x+8)*(y+8)) / 529}
			got := Apply(c, x, y, s)
			aboveR, above := Decisions(c, x, y)
			want := RGBA{R: flag(aboveR), G: flag(above), B: flag(above), A: 1}
			if got != want {
				t.Fatalf("Apply(%v, %d, %d) = %v, want %v from decisions", c, x, y, got, want)
			}
		}
	}
}

func TestApplyPeriodic(t *testing.T) {
	colors := []RGB{
		{0, 0, 0},
		{0.2, 0.7, 0.4},
		{0.5, 0.5, 0.5},
		{0.9, 0.1, 0.6},
		{1, 1, 1},
	}
	shifts := [][2]int{{8, 0}, {0, 8}, {-8, 16}, {64, -24}}
	for _, intensity := range []float32{0.25, 0.5, 1} {
		s := Settings{Intensity: intensity}
		for _, c := range colors {
			for y := -9; y < 9; y++ {
				for x := -9; x < 9; x++ {
					base := Apply(c, x, y, s)
					for _, d := range shifts {
						if got := Apply(c, x+d[0], y+d[1], s); got != base {
							t.Fatalf("Apply(%v) at (%d,%d) = %v, at (%d,%d) = %v",
								c, x, y, base, x+d[0], y+d[1], got)
						}
					}
				}
			}
		}
	}
}

func TestApplyChannelSplit(t *testing.T) {
	// Red alone clears the threshold; the mean does not.
	c := RGB{0.9, 0, 0}
	x, y := 1, 1 // threshold 16/64 = 0.25, mean 0.3 > 0.25
	aboveR, above := Decisions(c, x, y)
	if !aboveR || !above {
		t.Fatalf("Decisions at 0.25 = (%v, %v), want (true, true)", aboveR, above)
	}

	x, y = 1, 0 // threshold 0.5, mean 0.3
	aboveR, above = Decisions(c, x, y)
	if !aboveR || above {
		t.Fatalf("Decisions at 0.5 = (%v, %v), want (true, false)", aboveR, above)
	}
	got := Apply(c, x, y, Settings{Intensity: 1})
	if got != (RGBA{1, 0, 0, 1}) {
		t.Errorf("Apply = %v, want red only", got)
	}

	// Green alone lifts the mean but never the red decision.
	c = RGB{0, 1, 1}
	got = Apply(c, 0, 1, Settings{Intensity: 1}) // threshold 0.75, mean 2/3
	if got != (RGBA{0, 0, 0, 1}) {
		t.Errorf("Apply = %v, want black", got)
	}
	got = Apply(c, 1, 1, Settings{Intensity: 1}) // threshold 0.25
	if got != (RGBA{0, 1, 1, 1}) {
		t.Errorf("Apply = %v, want cyan", got)
	}
}

func TestApplyLinearInIntensity(t *testing.T) {
	c := RGB{0.2, 0.6, 0.9}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			full := Apply(c, x, y, Settings{Intensity: 1})
			for _, i := range []float32{0.1, 0.25, 0.5, 0.75} {
				got := Apply(c, x, y, Settings{Intensity: i})
				check := func(orig, bin, out float32) {
					want := orig*(1-i) + bin*i
					if !approxEqual(out, want) {
						t.Fatalf("(%d,%d) i=%v: got %v, want %v", x, y, i, out, want)
					}
				}
				check(c.R, full.R, got.R)
				check(c.G, full.G, got.G)
				check(c.B, full.B, got.B)
			}
		}
	}
}

func TestApplyStrictComparison(t *testing.T) {
	// A value equal to the threshold is not above it.
	c := RGB{0.5, 0.5, 0.5}
	got := Apply(c, 1, 0, Settings{Intensity: 1}) // threshold exactly 0.5
	if got != (RGBA{0, 0, 0, 1}) {
		t.Errorf("Apply at equal threshold = %v, want black", got)
	}
}

func TestApplyIgnoresOscillate(t *testing.T) {
	c := RGB{0.3, 0.4, 0.5}
	for _, osc := range []float32{0, 0.25, 1} {
		a := Apply(c, 2, 3, Settings{Intensity: 0.6})
		b := Apply(c, 2, 3, Settings{Intensity: 0.6, Oscillate: osc})
		if a != b {
			t.Errorf("oscillate %v changed output: %v vs %v", osc, a, b)
		}
	}
}

func BenchmarkApply(b *testing.B) {
	s := Settings{Intensity: 0.5}
	c := RGB{0.4, 0.5, 0.6}
	var sink RGBA
	i := 0
	for b.Loop() {
		sink = Apply(c, i, i>>6, s)
		i++
	}
	_ = sink
}
