// Package cmd holds the configuration plumbing shared by prefixsum commands.
package cmd

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/config/presets"
	"github.com/spacemeshos/go-prefixsum/log"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Branch is the git branch used to build the App. Designed to be overwritten by make.
	Branch string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// Configure fills conf from the preset, then the config file, then flags set on the command line.
// Errors are *log.FatalError.
func Configure(c *cobra.Command, configPath string, conf *config.Config) error {
	// flags are bound to conf and loading overwrites them
	changed := map[string]string{}
	c.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := LoadConfig(conf, conf.Preset, configPath); err != nil {
		return log.ErrMalformedConfig(err)
	}
	for name, value := range changed {
		if err := c.Flags().Set(name, value); err != nil {
			return log.ErrBadFlags(fmt.Errorf("--%s: %w", name, err))
		}
	}
	conf.ConfigFile = configPath
	return nil
}

// LoadConfig loads preset and then overrides it with values from the config file.
// Without a preset the file is applied on top of the defaults.
func LoadConfig(cfg *config.Config, preset, path string) error {
	v := viper.New()
	if err := config.LoadConfig(path, v); err != nil {
		return err
	}

	if len(preset) == 0 && v.IsSet("preset") {
		preset = v.GetString("preset")
	}
	*cfg = config.DefaultConfig()
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithZeroFields(),
		WithIgnoreUntagged(),
		WithErrorUnused(),
	}
	if err := v.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func WithZeroFields() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ZeroFields = true
	}
}

func WithIgnoreUntagged() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.IgnoreUntaggedFields = true
	}
}

func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}

// NewLogger creates the root logger from the logging config.
func NewLogger(cfg config.LoggerConfig, module string) (*zap.Logger, error) {
	lvl, err := cfg.ParseLevel()
	if err != nil {
		return nil, log.ErrBadFlags(err)
	}
	return log.NewWithLevel(module, zap.NewAtomicLevelAt(lvl), log.Encoder(cfg.Encoder)), nil
}
