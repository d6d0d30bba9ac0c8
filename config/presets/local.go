package presets

import (
	"github.com/spacemeshos/go-prefixsum/config"
)

func init() {
	register("local", local())
}

func local() config.Config {
	conf := config.DefaultConfig()
	conf.Transport = config.TransportInmem
	conf.Scan.Size = 8
	return conf
}
