package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// LogEncoder defines a log encoder kind.
type LogEncoder = string

const (
	defaultLoggingLevel = zapcore.InfoLevel
	// ConsoleLogEncoder represents logging with plain text.
	ConsoleLogEncoder LogEncoder = "console"
	// JSONLogEncoder represents logging with JSON.
	JSONLogEncoder LogEncoder = "json"
)

// LoggerConfig holds the logging options.
type LoggerConfig struct {
	Encoder LogEncoder `mapstructure:"log-encoder"`
	Level   string     `mapstructure:"level"`
}

// DefaultLoggingConfig logs info and above in plain text.
func DefaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder: ConsoleLogEncoder,
		Level:   defaultLoggingLevel.String(),
	}
}

// ParseLevel returns the configured level.
func (cfg *LoggerConfig) ParseLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	return lvl, nil
}
