package dither

import (
	"errors"
	"fmt"
	"image"

	"github.com/fortressfx/dither/internal/color"
	"github.com/fortressfx/dither/internal/parallel"
)

var (
	// ErrNilPixmap is returned when Effect.Apply receives a nil pixmap.
	ErrNilPixmap = errors.New("dither: nil pixmap")

	// ErrSizeMismatch is returned when source and destination differ in size.
	ErrSizeMismatch = errors.New("dither: source and destination sizes differ")
)

// Effect applies the dither stage to whole frames.
//
// Each frame is tried on the registered GPU accelerator first, then split
// into 64x64 tiles that run on a work-stealing pool. Both paths make the same
// threshold decisions; in linear mode the GPU may differ from the CPU by one
// rounding step per channel. An Effect may be used from one goroutine at a time; create
// one per render thread.
type Effect struct {
	pool   *parallel.WorkerPool
	useGPU bool
	cs     ColorSpace
}

// NewEffect creates an Effect. Call Close when done to stop its workers.
func NewEffect(opts ...Option) *Effect {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Effect{
		pool:   parallel.NewWorkerPool(o.workers),
		useGPU: o.gpu,
		cs:     o.colorSpace,
	}
	Logger().Debug("dither: effect created",
		"workers", e.pool.Workers(), "gpu", o.gpu, "colorspace", o.colorSpace)
	return e
}

// ColorSpace returns the color space the effect dithers in.
func (e *Effect) ColorSpace() ColorSpace {
	return e.cs
}

// Workers returns the number of CPU workers.
func (e *Effect) Workers() int {
	return e.pool.Workers()
}

// Apply writes the dithered src into dst. dst and src must have the same
// size and may be the same pixmap. Every output pixel is opaque.
//
// Settings are read once for the whole frame. Intensity 0 copies the color
// channels unchanged.
func (e *Effect) Apply(dst, src *Pixmap, s Settings) error {
	if dst == nil || src == nil {
		return ErrNilPixmap
	}
	if !dst.sameSize(src) {
		return fmt.Errorf("%w: dst %dx%d, src %dx%d",
			ErrSizeMismatch, dst.width, dst.height, src.width, src.height)
	}
	if len(src.data) == 0 {
		return nil
	}

	if s.Bypass() {
		bypass(dst, src)
		return nil
	}

	if e.useGPU && e.applyGPU(dst, src, s) {
		return nil
	}

	e.applyCPU(dst, src, s)
	return nil
}

// applyGPU reports whether the registered accelerator processed the frame.
// ErrFallbackToCPU is the accelerator declining the frame and is only logged
// at Debug; any other error is a device failure and logged at Warn.
func (e *Effect) applyGPU(dst, src *Pixmap, s Settings) bool {
	a := Accelerator()
	if a == nil || !ready(a) {
		return false
	}
	if dst != src {
		copy(dst.data, src.data)
	}
	target := RenderTarget{
		Data:   dst.data,
		Width:  dst.width,
		Height: dst.height,
		Stride: dst.Stride(),
	}
	err := a.Dither(target, s, e.cs)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrFallbackToCPU):
		Logger().Debug("dither: accelerator declined frame",
			"accelerator", a.Name(), "reason", err)
	default:
		Logger().Warn("dither: GPU path failed, using CPU",
			"accelerator", a.Name(), "err", err)
	}
	return false
}

func (e *Effect) applyCPU(dst, src *Pixmap, s Settings) {
	codec := e.cs.codec()
	tiles := parallel.Tiles(src.width, src.height)
	if len(tiles) == 1 {
		ditherRect(dst, src, 0, 0, src.width, src.height, s, codec)
		return
	}

	work := make([]func(), len(tiles))
	for i, t := range tiles {
		work[i] = func() {
			ditherRect(dst, src, t.X0, t.Y0, t.X1, t.Y1, s, codec)
		}
	}
	Logger().Debug("dither: cpu frame", "tiles", len(tiles), "workers", e.pool.Workers())
	e.pool.ExecuteAll(work)
}

// Close stops the worker pool. The Effect must not be used afterwards.
func (e *Effect) Close() {
	e.pool.Close()
}

// DitherImage dithers any image on the calling goroutine and returns a new
// pixmap. The registered accelerator is not used.
func DitherImage(img image.Image, s Settings) *Pixmap {
	pm := FromImage(img)
	if s.Bypass() {
		bypass(pm, pm)
		return pm
	}
	ditherRect(pm, pm, 0, 0, pm.width, pm.height, s, color.Encoded)
	return pm
}

// ditherRect runs the stage over [x0, x1) x [y0, y1). Each pixel is read
// before it is written, so dst may alias src.
func ditherRect(dst, src *Pixmap, x0, y0, x1, y1 int, s Settings, codec color.Codec) {
	stride := src.Stride()
	for y := y0; y < y1; y++ {
		row := y * stride
		for x := x0; x < x1; x++ {
			i := row + x*4
			c := RGB{
				R: codec.Decode(src.data[i+0]),
				G: codec.Decode(src.data[i+1]),
				B: codec.Decode(src.data[i+2]),
			}
			out := Apply(c, x, y, s)
			dst.data[i+0] = codec.Encode(out.R)
			dst.data[i+1] = codec.Encode(out.G)
			dst.data[i+2] = codec.Encode(out.B)
			dst.data[i+3] = 255
		}
	}
}

// bypass copies color channels and makes every pixel opaque.
func bypass(dst, src *Pixmap) {
	if dst != src {
		copy(dst.data, src.data)
	}
	for i := 3; i < len(dst.data); i += 4 {
		dst.data[i] = 255
	}
}
