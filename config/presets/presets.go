// Package presets holds named configurations that can be selected with --preset.
package presets

import (
	"fmt"
	"sort"

	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/config"
)

var presets = map[string]config.Config{}

func register(name string, conf config.Config) {
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset %s already registered", name))
	}
	conf.Preset = name
	presets[name] = conf
}

// Options returns the names of all registered presets.
func Options() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named preset.
func Get(name string) (config.Config, error) {
	conf, exist := presets[name]
	if !exist {
		return config.Config{}, fmt.Errorf("%w: preset %q is not registered, expected one of %v",
			types.ErrConfiguration, name, Options())
	}
	conf.Input.Values = append([]int64(nil), conf.Input.Values...)
	return conf, nil
}
