// Package config contains prefixsum configuration definitions.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/input"
	"github.com/spacemeshos/go-prefixsum/matmul"
	"github.com/spacemeshos/go-prefixsum/p2p"
	"github.com/spacemeshos/go-prefixsum/scan"
)

// Transport names.
const (
	TransportInmem   = "inmem"
	TransportMocknet = "mocknet"
	TransportLibp2p  = "libp2p"
)

// Config defines the top level configuration of a prefixsum run.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Preset     string        `mapstructure:"preset"`
	Scan       scan.Config   `mapstructure:"scan"`
	P2P        p2p.Config    `mapstructure:"p2p"`
	Matmul     matmul.Config `mapstructure:"matmul"`
	Input      input.Config  `mapstructure:"input"`
	LOGGING    LoggerConfig  `mapstructure:"logging"`
}

// BaseConfig defines options shared by every command.
type BaseConfig struct {
	ConfigFile string `mapstructure:"config"`

	// Transport connecting the ranks: inmem, mocknet or libp2p.
	Transport string `mapstructure:"transport"`
	// Output is a path for the JSON report. Empty disables it.
	Output string `mapstructure:"output"`

	CollectMetrics bool   `mapstructure:"metrics"`
	MetricsListen  string `mapstructure:"metrics-listen"`
	MetricsPush    string `mapstructure:"metrics-push"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		Scan:       scan.DefaultConfig(),
		P2P:        p2p.DefaultConfig(),
		Matmul:     matmul.DefaultConfig(),
		Input:      input.DefaultConfig(),
		LOGGING:    DefaultLoggingConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		Transport:     TransportInmem,
		MetricsListen: "127.0.0.1:1010",
	}
}

// Validate checks options used by the scan command.
func (cfg *Config) Validate() error {
	switch cfg.Transport {
	case TransportInmem:
	case TransportMocknet, TransportLibp2p:
		if err := cfg.P2P.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", types.ErrConfiguration, cfg.Transport)
	}
	if err := cfg.Scan.Validate(); err != nil {
		return err
	}
	if err := cfg.Input.Validate(cfg.Scan.Size); err != nil {
		return err
	}
	if _, err := cfg.LOGGING.ParseLevel(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("preset", cfg.Preset)
	encoder.AddString("transport", cfg.Transport)
	encoder.AddString("input", string(cfg.Input.Mode))
	encoder.AddBool("metrics", cfg.CollectMetrics)
	return encoder.AddObject("scan", &cfg.Scan)
}

// LoadConfig reads the config file at fileLocation into vip.
// Empty location leaves vip untouched.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		return nil
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %w", err)
	}
	return nil
}
