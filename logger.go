package dither

import (
	"log/slog"
	"sync/atomic"
)

// silent is the logger in effect until SetLogger is called.
var silent = slog.New(slog.DiscardHandler)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(silent)
}

// SetLogger routes log output of the dither packages to l. Pass nil to
// silence them again. It may be called at any time, including while frames
// are being processed.
//
// What is logged:
//   - Debug: effect construction, per-frame tile fan-out, frames the GPU
//     accelerator declined, GPU pipeline state
//   - Info: accelerator registration, GPU adapter or shared device in use
//   - Warn: GPU failures that forced a frame onto the CPU
//
// The registered accelerator receives l as well when it has a
// SetLogger(*slog.Logger) method.
//
//	dither.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//	    &slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	logger.Store(l)

	if a := Accelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the logger set by SetLogger. The gpu and integration
// packages log through it.
func Logger() *slog.Logger {
	return logger.Load()
}

func propagateLogger(a GPUAccelerator, l *slog.Logger) {
	if ls, ok := a.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}
