package presets

import (
	"time"

	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/input"
)

func init() {
	register("mocknet", mocknet())
}

func mocknet() config.Config {
	conf := config.DefaultConfig()
	conf.Transport = config.TransportMocknet
	conf.Scan.Size = 12
	conf.Scan.RecvTimeout = 30 * time.Second
	conf.Input.Mode = input.ModeRandom
	conf.P2P.StreamTimeout = 5 * time.Second
	return conf
}
