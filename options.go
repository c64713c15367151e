package dither

// Option configures an Effect during creation.
//
// Example:
//
//	// Defaults: GOMAXPROCS workers, GPU if registered, encoded color space.
//	fx := dither.NewEffect()
//
//	// Four CPU workers, never touch the GPU, dither in linear light.
//	fx := dither.NewEffect(
//	    dither.WithWorkers(4),
//	    dither.WithoutGPU(),
//	    dither.WithColorSpace(dither.ColorSpaceLinear),
//	)
type Option func(*options)

// options holds optional configuration for Effect creation.
type options struct {
	workers    int
	gpu        bool
	colorSpace ColorSpace
}

// defaultOptions returns the default effect options.
func defaultOptions() options {
	return options{
		workers:    0, // GOMAXPROCS
		gpu:        true,
		colorSpace: ColorSpaceEncoded,
	}
}

// WithWorkers sets the number of CPU workers. Zero or negative means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithoutGPU disables the registered GPU accelerator for this Effect.
func WithoutGPU() Option {
	return func(o *options) {
		o.gpu = false
	}
}

// WithColorSpace selects how stored pixel values are fed to the stage.
func WithColorSpace(cs ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}
