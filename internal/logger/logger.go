// Package logger builds the zap loggers shared by the server components
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger at the given level. Development mode uses the
// console encoder, production the JSON one.
func New(level string, dev bool) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.Sugar(), nil
}

// Must is New for main packages, panicking on error
func Must(level string, dev bool) *zap.SugaredLogger {
	log, err := New(level, dev)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return log
}
