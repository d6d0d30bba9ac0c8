package presets

import (
	"time"

	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/input"
)

func init() {
	register("loopback", loopback())
}

// loopback runs every rank as a separate libp2p host on localhost tcp.
func loopback() config.Config {
	conf := config.DefaultConfig()
	conf.Transport = config.TransportLibp2p
	conf.Scan.Size = 6
	conf.Scan.RecvTimeout = time.Minute
	conf.Input.Mode = input.ModeRandom
	conf.Input.MaxValue = 1 << 20
	conf.P2P.Listen = "/ip4/127.0.0.1/tcp/0"
	conf.P2P.StreamTimeout = 10 * time.Second
	conf.LOGGING.Encoder = config.JSONLogEncoder
	return conf
}
