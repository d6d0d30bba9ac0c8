// Package barrier synchronizes a contiguous group of ranks with messages only.
package barrier

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/topology"
)

// Barrier is a dissemination barrier over a group. No member returns from
// Wait until every member entered the same Wait.
//
// A Barrier is owned by a single rank and is not safe for concurrent use.
type Barrier struct {
	c     *comm.Context
	group topology.Group
	epoch uint32
}

// New creates barrier for the rank of c over group. The rank must be a member.
func New(c *comm.Context, group topology.Group) (*Barrier, error) {
	if group.Len() < 1 || int(group.Hi) > c.Size() {
		return nil, fmt.Errorf("%w: barrier group %s in run of %d", types.ErrConfiguration, group, c.Size())
	}
	if !group.Contains(c.Rank()) {
		return nil, fmt.Errorf("%w: rank %d is not a member of %s", types.ErrConfiguration, c.Rank(), group)
	}
	return &Barrier{c: c, group: group}, nil
}

// Steps returns the number of send/receive steps a single Wait takes.
func (b *Barrier) Steps() int {
	return steps(b.group.Len())
}

func steps(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Wait blocks until every member of the group reached the same Wait.
// In step s member i notifies (i+2^s) mod n and waits for (i-2^s) mod n,
// after ceil(log2 n) steps every member transitively heard from all others.
func (b *Barrier) Wait(ctx context.Context) error {
	epoch := b.epoch
	b.epoch++

	start := time.Now()
	n := b.group.Len()
	i := int(b.c.Rank() - b.group.Lo)
	for s := range steps(n) {
		offset := 1 << s
		tag := types.Tag{Kind: types.KindBarrier, Group: b.group.ID, Round: epoch, Step: uint32(s)}
		to := b.group.Lo + types.Rank((i+offset)%n)
		from := b.group.Lo + types.Rank((i-offset%n+n)%n)
		if err := b.c.Send(ctx, to, tag, 0); err != nil {
			return fmt.Errorf("barrier %s: %w", b.group, err)
		}
		if _, err := b.c.Recv(ctx, from, tag); err != nil {
			return fmt.Errorf("barrier %s: %w", b.group, err)
		}
	}
	waitDuration.WithLabelValues(b.group.ID.String()).Observe(time.Since(start).Seconds())
	b.c.Logger().Debug("barrier released",
		zap.Stringer("group", b.group),
		zap.Uint32("epoch", epoch),
	)
	return nil
}
