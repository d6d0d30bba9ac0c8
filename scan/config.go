package scan

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Config of a single scan run.
type Config struct {
	// Size is the number of ranks P.
	Size int `mapstructure:"size"`
	// RecvTimeout fails a run when a single receive doesn't complete in time.
	// Zero waits forever.
	RecvTimeout time.Duration `mapstructure:"recv-timeout"`
}

// DefaultConfig returns config for 8 ranks without a receive timeout.
func DefaultConfig() Config {
	return Config{Size: 8}
}

// Validate returns ErrConfiguration for a non-positive size or negative timeout.
func (cfg *Config) Validate() error {
	if cfg.Size < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", types.ErrConfiguration, cfg.Size)
	}
	if cfg.RecvTimeout < 0 {
		return fmt.Errorf("%w: negative receive timeout %v", types.ErrConfiguration, cfg.RecvTimeout)
	}
	return nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("size", cfg.Size)
	encoder.AddDuration("recv timeout", cfg.RecvTimeout)
	return nil
}
