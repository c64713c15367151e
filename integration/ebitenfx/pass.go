package ebitenfx

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/fortressfx/dither"
	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed dither.kage
var ditherKage []byte

// Errors returned by Pass.
var (
	// ErrNilImage is returned when Draw receives a nil image.
	ErrNilImage = errors.New("ebitenfx: nil image")

	// ErrDisposed is returned when Draw is called after Dispose.
	ErrDisposed = errors.New("ebitenfx: pass disposed")

	// ErrSameImage is returned when Draw is asked to read and write the
	// same image.
	ErrSameImage = errors.New("ebitenfx: dst and src are the same image")
)

// Uniform names declared in dither.kage.
const (
	UniformIntensity = "Intensity"
	UniformOscillate = "Oscillate"
)

// Pass is a compiled dither shader.
type Pass struct {
	shader *ebiten.Shader
	op     ebiten.DrawRectShaderOptions
}

// NewPass compiles the Kage shader. Compile once and reuse the Pass.
func NewPass() (*Pass, error) {
	s, err := ebiten.NewShader(ditherKage)
	if err != nil {
		return nil, fmt.Errorf("ebitenfx: compile shader: %w", err)
	}
	dither.Logger().Debug("ebitenfx: shader compiled")
	return &Pass{shader: s}, nil
}

// Source returns the Kage source of the shader.
func Source() []byte {
	return ditherKage
}

// Uniforms returns the shader uniforms for s.
func Uniforms(s dither.Settings) map[string]any {
	return map[string]any{
		UniformIntensity: s.Intensity,
		UniformOscillate: s.Oscillate,
	}
}

// Draw dithers src into dst, replacing dst's pixels. dst and src must have
// the same size and must be different images. The threshold pattern is
// anchored at dst's top-left pixel.
func (p *Pass) Draw(dst, src *ebiten.Image, s dither.Settings) error {
	if dst == nil || src == nil {
		return ErrNilImage
	}
	if dst == src {
		return ErrSameImage
	}
	if p.shader == nil {
		return ErrDisposed
	}
	db, sb := dst.Bounds(), src.Bounds()
	if db.Dx() != sb.Dx() || db.Dy() != sb.Dy() {
		return fmt.Errorf("%w: dst %dx%d, src %dx%d",
			dither.ErrSizeMismatch, db.Dx(), db.Dy(), sb.Dx(), sb.Dy())
	}

	p.op.Images[0] = src
	p.op.Uniforms = Uniforms(s)
	p.op.Blend = ebiten.BlendCopy
	dst.DrawRectShader(sb.Dx(), sb.Dy(), p.shader, &p.op)
	p.op.Images[0] = nil
	return nil
}

// Dispose releases the shader. Draw returns ErrDisposed afterwards.
func (p *Pass) Dispose() {
	if p.shader != nil {
		p.shader.Deallocate()
		p.shader = nil
	}
}
