package p2p

import (
	"fmt"
	"time"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Config of the libp2p transport.
type Config struct {
	// Listen is the multiaddr every loopback host binds to.
	Listen string `mapstructure:"listen"`
	// StreamTimeout bounds a single message exchange on a stream.
	StreamTimeout time.Duration `mapstructure:"stream-timeout"`
	// RequestLimit is the largest encoded message accepted by a host.
	RequestLimit int `mapstructure:"request-limit"`
}

// DefaultConfig returns config for hosts on the loopback interface.
func DefaultConfig() Config {
	return Config{
		Listen:        "/ip4/127.0.0.1/tcp/0",
		StreamTimeout: 10 * time.Second,
		RequestLimit:  1 << 20,
	}
}

// Validate returns ErrConfiguration for a malformed listen address or non-positive limits.
func (cfg *Config) Validate() error {
	if _, err := ma.NewMultiaddr(cfg.Listen); err != nil {
		return fmt.Errorf("%w: listen address %q: %w", types.ErrConfiguration, cfg.Listen, err)
	}
	if cfg.StreamTimeout <= 0 {
		return fmt.Errorf("%w: stream timeout must be positive, got %v", types.ErrConfiguration, cfg.StreamTimeout)
	}
	if cfg.RequestLimit <= 0 {
		return fmt.Errorf("%w: request limit must be positive, got %d", types.ErrConfiguration, cfg.RequestLimit)
	}
	return nil
}
