// Package logging wires a single zap logger for the whole server.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.SugaredLogger = zap.NewNop().Sugar()

// Init builds the process logger. Development mode gets the console encoder
// and debug level; anything else gets production JSON output.
func Init(environment string) error {
	var (
		logger *zap.Logger
		err    error
	)
	if environment == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		logger, err = cfg.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	L = logger.Sugar()
	return nil
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = L.Sync()
}
