package guest

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/errors"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the guest package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the guest package's logger.
// This must be called before any host instantiation.
func SetLogger(l *zap.Logger) {
	logger = l
}

// errOutOfRange reports a guest pointer/length pair outside linear
// memory.
var errOutOfRange = errors.InvalidData(errors.PhaseGuest, "guest pointer out of memory range")
