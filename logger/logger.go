// Package logger provides the structured zap logger shared by the ledger
// engine. The engine is a library, so logging stays on a single global
// sugared logger the host process can flush via Sync before exit.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// envProduction is the config.Config.Env value that switches the encoder
// to JSON; every other environment gets human-readable console output.
const envProduction = "production"

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment. Safe to
// call more than once; only the first call takes effect.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == envProduction {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get returns the global sugared logger, initializing a development logger
// if Init has not run yet.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered log entries. Hosts should call this before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
