// Package elog is the editor's structured logging shim. It wraps a
// zap.SugaredLogger, gated by the SCED_DEBUG environment variable the
// same way the terminal-session teacher this module is grounded on gates
// its own debug logging behind VIBETUNNEL_DEBUG.
package elog

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

func get() *zap.SugaredLogger {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("SCED_DEBUG") != "" {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
			cfg.OutputPaths = []string{"stderr"}
		}
		z, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop().Sugar()
			return
		}
		logger = z.Sugar()
	})
	return logger
}

// Debugf logs at debug level; visible only when SCED_DEBUG is set.
func Debugf(template string, args ...interface{}) { get().Debugf(template, args...) }

// Infof logs at info level.
func Infof(template string, args ...interface{}) { get().Infof(template, args...) }

// Warnf logs at warn level (e.g. a file-watch error).
func Warnf(template string, args ...interface{}) { get().Warnf(template, args...) }

// Errorf logs at error level (e.g. a recoverable I/O failure).
func Errorf(template string, args ...interface{}) { get().Errorf(template, args...) }

// Fatalf logs at fatal level and then exits the process (1), used only
// for the fatal-init failures spec.md §4.11/§7 name.
func Fatalf(template string, args ...interface{}) { get().Fatalf(template, args...) }

// Sync flushes any buffered log entries; call before process exit.
func Sync() {
	_ = get().Sync()
}
