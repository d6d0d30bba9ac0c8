package scan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

var (
	handoffTag = types.Tag{Kind: types.KindHandoff, Group: types.GroupWorld}
	chainTag   = types.Tag{Kind: types.KindChain, Group: types.GroupWorld}
)

// handoff sends the total of the active group to the first overflow rank.
func (n *Node) handoff(ctx context.Context) error {
	to := n.c.Rank() + 1
	if err := n.c.Send(ctx, to, handoffTag, n.prefix); err != nil {
		return fmt.Errorf("handoff: %w", err)
	}
	handoffs.Inc()
	n.log.Debug("handed off active total", zap.Stringer("to", to), zap.Int64("total", n.prefix))
	n.tracer.OnHandoff(n.c.Rank(), to, n.prefix)
	return nil
}

// chain waits for the prefix of the predecessor, adds the own value and
// forwards the result unless the rank is the last one.
func (n *Node) chain(ctx context.Context) error {
	rank := n.c.Rank()
	tag := chainTag
	if int(rank) == n.layout.Active {
		tag = handoffTag
	}
	msg, err := n.c.Recv(ctx, rank-1, tag)
	if err != nil {
		return fmt.Errorf("chain: %w", err)
	}
	n.prefix = msg.Value + n.value
	chainLinks.Inc()
	n.tracer.OnChain(rank, n.prefix)
	if rank == n.layout.Last() {
		return nil
	}
	if err := n.c.Send(ctx, rank+1, chainTag, n.prefix); err != nil {
		return fmt.Errorf("chain: %w", err)
	}
	return nil
}
