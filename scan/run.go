package scan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/topology"
)

// Run computes the inclusive prefix sum of values, where values[r] is held by
// rank r of world. It returns either the results of every rank or the first
// error of any rank, never a partial result.
func Run(ctx context.Context, world *comm.World, values []int64, opts ...Opt) (Results, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(values) != world.Size() {
		err := fmt.Errorf("%w: %d values for %d ranks", ErrConfiguration, len(values), world.Size())
		fail(err)
		return nil, err
	}
	layout, err := topology.Partition(world.Size())
	if err != nil {
		fail(err)
		return nil, err
	}

	start := time.Now()
	o.log.Info("scan started", zap.Inline(layout))
	results := make(Results, world.Size())
	err = world.Run(ctx, func(ctx context.Context, c *comm.Context) error {
		node, err := NewNode(c, layout, values[c.Rank()], opts...)
		if err != nil {
			return err
		}
		if err := node.Run(ctx); err != nil {
			return err
		}
		result, err := node.Result()
		if err != nil {
			return err
		}
		results[c.Rank()] = result
		return nil
	})
	if err != nil {
		fail(err)
		return nil, err
	}
	runsCompleted.Inc()
	runDuration.Observe(time.Since(start).Seconds())
	o.log.Info("scan finished",
		zap.Int("size", layout.Size),
		zap.Duration("duration", time.Since(start)),
		zap.Stringer("digest", results.Digest()),
	)
	return results, nil
}

func fail(err error) {
	runsFailed.Inc()
	runErrors.WithLabelValues(errorKind(err)).Inc()
}
