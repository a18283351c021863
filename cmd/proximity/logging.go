package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDir      = "logs"
	logFileName = "proximity.log"
)

// setupLogging returns a file logger when debug is set, otherwise a no-op logger
// The terminal belongs to tcell, so logs never go to stdout
func setupLogging(debug bool, dir string) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(dir, logFileName)}
	cfg.ErrorOutputPaths = []string{filepath.Join(dir, logFileName)}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
