package bindgen

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the bindgen package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the bindgen package's logger. Passing nil restores
// the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
