// Package obs contains observability utilities such as logging.
package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global structured logger used by the service.
//
// Logger starts as a no-op so packages can log before InitLogger runs.
var Logger = zap.NewNop()

// Options controls logger construction.
type Options struct {
	Development bool
	Level       string
}

// InitLogger initializes the global Logger with a JSON encoder at info level.
func InitLogger() {
	InitLoggerWith(Options{Level: "info"})
}

// InitLoggerWith initializes the global Logger. Development mode switches to
// the console encoder at debug level.
func InitLoggerWith(opts Options) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if opts.Level != "" {
		if lvl, err := zapcore.ParseLevel(opts.Level); err == nil && !opts.Development {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	cfg.DisableStacktrace = !opts.Development
	l, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		Logger.Warn("logger_build_failed", zap.Error(err))
		return
	}
	Logger = l
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
