// Package input produces the startup value of every rank.
package input

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/seehuhn/mt19937"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Mode selects how values are produced.
type Mode string

const (
	// ModeRank assigns every rank its own rank as value.
	ModeRank Mode = "rank"
	// ModeRandom draws values uniformly from [-MaxValue, MaxValue].
	ModeRandom Mode = "random"
	// ModeList takes values verbatim from Values.
	ModeList Mode = "list"
)

func (m Mode) String() string {
	return string(m)
}

// Set implements pflag.Value.Set.
func (m *Mode) Set(value string) error {
	switch mode := Mode(value); mode {
	case ModeRank, ModeRandom, ModeList:
		*m = mode
		return nil
	}
	return fmt.Errorf("%w: unknown input mode %q", types.ErrConfiguration, value)
}

// Type implements pflag.Value.Type.
func (Mode) Type() string {
	return "mode"
}

// MaxValueLimit keeps 2*MaxValue+1 within int64.
const MaxValueLimit = math.MaxInt64 / 2

// Config of the input values.
type Config struct {
	Mode     Mode    `mapstructure:"mode"`
	Seed     uint64  `mapstructure:"seed"`
	MaxValue int64   `mapstructure:"max-value"`
	Values   []int64 `mapstructure:"values"`
}

// DefaultConfig assigns value = rank.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeRank,
		Seed:     1,
		MaxValue: 1000,
	}
}

// Validate checks the config against the number of ranks.
func (cfg *Config) Validate(size int) error {
	switch cfg.Mode {
	case ModeRank:
	case ModeRandom:
		if cfg.MaxValue < 0 || cfg.MaxValue > MaxValueLimit {
			return fmt.Errorf("%w: max value %d outside of [0, %d]", types.ErrConfiguration, cfg.MaxValue, int64(MaxValueLimit))
		}
	case ModeList:
		if len(cfg.Values) != size {
			return fmt.Errorf("%w: %d values for %d ranks", types.ErrConfiguration, len(cfg.Values), size)
		}
	default:
		return fmt.Errorf("%w: unknown input mode %q", types.ErrConfiguration, cfg.Mode)
	}
	return nil
}

// Values returns one value per rank.
func Values(cfg Config, size int) ([]int64, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", types.ErrConfiguration, size)
	}
	if err := cfg.Validate(size); err != nil {
		return nil, err
	}
	values := make([]int64, size)
	switch cfg.Mode {
	case ModeRank:
		for i := range values {
			values[i] = int64(i)
		}
	case ModeRandom:
		mt := mt19937.New()
		mt.SeedFromSlice([]uint64{cfg.Seed})
		rng := rand.New(mt)
		for i := range values {
			values[i] = rng.Int63n(2*cfg.MaxValue+1) - cfg.MaxValue
		}
	case ModeList:
		copy(values, cfg.Values)
	}
	return values, nil
}

// ParseList parses comma separated integers, such as "1, -2,3".
func ParseList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int64, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d (%q): %w", types.ErrConfiguration, i, part, err)
		}
		values = append(values, v)
	}
	return values, nil
}
