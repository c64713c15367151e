package ebitenfx

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/fortressfx/dither"
	"github.com/hajimehoshi/ebiten/v2"
)

// kageThreshold mirrors threshold() in dither.kage.
func kageThreshold(px, py float64) float32 {
	seed := func(xb, yb float64) float64 { return 2*math.Abs(xb-yb) + yb }
	bit := func(v, k float64) float64 { return math.Mod(math.Floor(v/k), 2) }
	x := math.Mod(px, 8)
	y := math.Mod(py, 8)
	level := 16*seed(bit(x, 1), bit(y, 1)) + 4*seed(bit(x, 2), bit(y, 2)) + seed(bit(x, 4), bit(y, 4))
	return float32(level / 64)
}

func TestKageThresholdMatchesTable(t *testing.T) {
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if got, want := kageThreshold(float64(x), float64(y)), dither.Threshold(x, y); got != want {
				t.Errorf("kage threshold (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestUniforms(t *testing.T) {
	u := Uniforms(dither.Settings{Intensity: 0.5, Oscillate: 0.25})
	if len(u) != 2 {
		t.Fatalf("len(Uniforms) = %d, want 2", len(u))
	}
	if got, ok := u[UniformIntensity].(float32); !ok || got != 0.5 {
		t.Errorf("Intensity = %v", u[UniformIntensity])
	}
	if got, ok := u[UniformOscillate].(float32); !ok || got != 0.25 {
		t.Errorf("Oscillate = %v", u[UniformOscillate])
	}
}

func TestSourceDeclaresUniforms(t *testing.T) {
	src := Source()
	for _, want := range []string{
		"//kage:unit pixels",
		"var " + UniformIntensity + " float",
		"var " + UniformOscillate + " float",
		"func Fragment(",
	} {
		if !bytes.Contains(src, []byte(want)) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestDrawNilImage(t *testing.T) {
	p := &Pass{}
	if err := p.Draw(nil, nil, dither.Settings{}); !errors.Is(err, ErrNilImage) {
		t.Errorf("Draw(nil, nil) = %v, want ErrNilImage", err)
	}
}

func TestDrawSameImage(t *testing.T) {
	p := &Pass{}
	img := new(ebiten.Image)
	if err := p.Draw(img, img, dither.Settings{Intensity: 0.5}); !errors.Is(err, ErrSameImage) {
		t.Errorf("Draw(img, img) = %v, want ErrSameImage", err)
	}
}

func TestDisposeIdempotent(t *testing.T) {
	p := &Pass{}
	p.Dispose()
	p.Dispose()
	if p.shader != nil {
		t.Error("shader should be nil after Dispose")
	}
}
