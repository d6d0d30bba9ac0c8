// Package log builds the zap loggers used across prefixsum.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// where logs go by default.
var logWriter io.Writer = os.Stderr

// NewNop creates silent logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// NewWithLevel creates a logger with a fixed level and with a set of (optional) hooks.
func NewWithLevel(module string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	return newWithWriter(zapcore.AddSync(logWriter), module, level, encoder, hooks...)
}

func newWithWriter(w zapcore.WriteSyncer,
	module string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	core := zapcore.NewCore(encoder, w, level)
	return zap.New(zapcore.RegisterHooks(core, hooks...)).Named(module)
}

// Encoder returns the zap encoder for the named format. Anything other than
// "json" yields the console encoder.
func Encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Nodes names a logger per rank.
func Nodes(logger *zap.Logger, rank uint32) *zap.Logger {
	return logger.With(zap.Uint32("rank", rank))
}
