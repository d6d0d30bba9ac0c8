package scan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/topology"
)

func exchangeTag(round int) types.Tag {
	return types.Tag{Kind: types.KindExchange, Group: types.GroupActive, Round: uint32(round)}
}

// exchange runs log2(A) rounds of recursive doubling. In round k the rank
// sends its pre-round prefix to rank+2^k and adds the value received from
// rank-2^k. A barrier over the active group closes every round.
func (n *Node) exchange(ctx context.Context) error {
	rank := n.c.Rank()
	for round := range n.layout.Rounds() {
		partners := topology.RoundPartners(rank, n.layout.Active, round)
		tag := exchangeTag(round)
		sent := n.prefix
		if partners.HasSend {
			if err := n.c.Send(ctx, partners.Send, tag, sent); err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
		}
		if partners.HasRecv {
			msg, err := n.c.Recv(ctx, partners.Recv, tag)
			if err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
			n.prefix += msg.Value
		}
		if err := n.active.Wait(ctx); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		roundsCompleted.Inc()
		n.log.Debug("round completed",
			zap.Int("round", round),
			zap.Int64("sent", sent),
			zap.Int64("prefix", n.prefix),
		)
		n.tracer.OnRound(rank, round, n.prefix)
	}
	return nil
}
