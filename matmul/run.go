package matmul

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Config of a matrix multiplication run.
type Config struct {
	N        int    `mapstructure:"n"`
	SeedA    uint64 `mapstructure:"seed-a"`
	SeedB    uint64 `mapstructure:"seed-b"`
	MaxValue int    `mapstructure:"max-value"`
	Print    bool   `mapstructure:"print"`
}

// DefaultConfig returns config for 8 x 8 matrices with entries up to 9.
func DefaultConfig() Config {
	return Config{
		N:        8,
		SeedA:    1,
		SeedB:    2,
		MaxValue: 9,
	}
}

func (cfg *Config) Validate() error {
	if cfg.N < 1 {
		return fmt.Errorf("%w: matrix size must be positive, got %d", types.ErrConfiguration, cfg.N)
	}
	if cfg.N > types.MaxDataLength {
		return fmt.Errorf("%w: matrix size %d exceeds %d", types.ErrConfiguration, cfg.N, types.MaxDataLength)
	}
	if cfg.MaxValue < 0 {
		return fmt.Errorf("%w: negative max value %d", types.ErrConfiguration, cfg.MaxValue)
	}
	return CheckExact(cfg.N, int64(cfg.MaxValue))
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("n", cfg.N)
	encoder.AddUint64("seed a", cfg.SeedA)
	encoder.AddUint64("seed b", cfg.SeedB)
	encoder.AddInt("max value", cfg.MaxValue)
	return nil
}

// Result of a run: both inputs and the product.
type Result struct {
	A, B, C *Matrix
}

// Run fills A and B from their seeds on every rank and multiplies them across
// the ranks of world.
func Run(ctx context.Context, world *comm.World, cfg Config, logger *zap.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := Fill(cfg.N, cfg.SeedA, cfg.MaxValue)
	if err != nil {
		return nil, err
	}
	b, err := Fill(cfg.N, cfg.SeedB, cfg.MaxValue)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	logger.Info("matmul started", zap.Inline(&cfg), zap.Int("size", world.Size()))
	var product *Matrix
	err = world.Run(ctx, func(ctx context.Context, c *comm.Context) error {
		m, err := Multiply(ctx, c, a, b)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			product = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("matmul finished",
		zap.Duration("duration", time.Since(start)),
		zap.Int64("checksum", product.Checksum()),
	)
	return &Result{A: a, B: b, C: product}, nil
}
