//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var discard = slog.New(slog.DiscardHandler)

// accelLogger carries the logger handed down by dither.SetLogger, already
// tagged with the accelerator name.
var accelLogger atomic.Pointer[slog.Logger]

func slogger() *slog.Logger {
	if l := accelLogger.Load(); l != nil {
		return l
	}
	return discard
}

func setLogger(l *slog.Logger) {
	if l == nil {
		accelLogger.Store(nil)
		return
	}
	accelLogger.Store(l.With("accelerator", acceleratorName))
}
