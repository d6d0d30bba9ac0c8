package prefixsum

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/p2p"
	"github.com/spacemeshos/go-prefixsum/p2p/inmem"
)

// newWorld connects conf.Scan.Size ranks over the configured transport.
func newWorld(ctx context.Context, conf *config.Config, logger *zap.Logger) (*comm.World, error) {
	size := conf.Scan.Size
	var (
		network comm.Network
		err     error
	)
	switch conf.Transport {
	case config.TransportInmem:
		network = inmem.New(size, inmem.WithLogger(logger.Named("inmem")))
	case config.TransportMocknet:
		network, err = p2p.NewMocknet(size,
			p2p.WithLogger(logger.Named("p2p")),
			p2p.WithConfig(conf.P2P),
		)
	case config.TransportLibp2p:
		network, err = p2p.NewLoopback(ctx, size, conf.P2P, p2p.WithLogger(logger.Named("p2p")))
	default:
		err = fmt.Errorf("%w: unknown transport %q", types.ErrConfiguration, conf.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s network: %w", conf.Transport, err)
	}
	world, err := comm.NewWorld(network, size,
		comm.WithLogger(logger.Named("comm")),
		comm.WithRecvTimeout(conf.Scan.RecvTimeout),
	)
	if err != nil {
		network.Close()
		return nil, err
	}
	logger.Debug("world created", zap.String("transport", conf.Transport), zap.Int("size", size))
	return world, nil
}

// closeWorld releases the network of a finished run.
func closeWorld(world *comm.World, logger *zap.Logger) {
	if err := world.Close(); err != nil {
		logger.Warn("failed to close network", zap.Error(err))
	}
}
