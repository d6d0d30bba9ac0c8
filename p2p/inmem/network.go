// Package inmem connects ranks of a single process through mailboxes.
package inmem

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/p2p/mailbox"
)

var (
	// ErrUnreachable is returned when sending to a rank that was configured unreachable.
	ErrUnreachable = errors.New("peer unreachable")

	errNetworkClosed = errors.New("network closed")
)

// Opt configures Network.
type Opt func(*Network)

// WithLogger configures logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(n *Network) {
		n.log = logger
	}
}

// WithDropFilter silently discards every message for which drop returns true.
// The sender observes a successful send.
func WithDropFilter(drop func(types.Message) bool) Opt {
	return func(n *Network) {
		n.drop = drop
	}
}

// WithUnreachable fails every send addressed to one of the ranks.
func WithUnreachable(ranks ...types.Rank) Opt {
	return func(n *Network) {
		for _, rank := range ranks {
			n.unreachable[rank] = struct{}{}
		}
	}
}

// Network is a fully connected set of in-process endpoints.
type Network struct {
	log         *zap.Logger
	boxes       []*mailbox.Mailbox
	drop        func(types.Message) bool
	unreachable map[types.Rank]struct{}
}

// New creates network for size ranks.
func New(size int, opts ...Opt) *Network {
	n := &Network{
		log:         zap.NewNop(),
		boxes:       make([]*mailbox.Mailbox, size),
		unreachable: map[types.Rank]struct{}{},
	}
	for i := range n.boxes {
		n.boxes[i] = mailbox.New(types.Rank(i))
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Endpoint returns transport of the rank.
func (n *Network) Endpoint(rank types.Rank) (comm.Transport, error) {
	if int(rank) >= len(n.boxes) {
		return nil, fmt.Errorf("%w: rank %d outside of network with %d ranks",
			types.ErrConfiguration, rank, len(n.boxes))
	}
	return &endpoint{network: n, rank: rank}, nil
}

// Close fails all pending receives.
func (n *Network) Close() error {
	for _, box := range n.boxes {
		box.Close(errNetworkClosed)
	}
	return nil
}

type endpoint struct {
	network *Network
	rank    types.Rank
}

func (e *endpoint) Send(ctx context.Context, msg types.Message) error {
	if msg.From != e.rank {
		return fmt.Errorf("%w: rank %d sends on behalf of %d", types.ErrProtocolViolation, e.rank, msg.From)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n := e.network
	if _, exist := n.unreachable[msg.To]; exist || int(msg.To) >= len(n.boxes) {
		return fmt.Errorf("%w: %w: rank %d", types.ErrCommunication, ErrUnreachable, msg.To)
	}
	if n.drop != nil && n.drop(msg) {
		n.log.Debug("dropped message", zap.Inline(&msg))
		return nil
	}
	msg.Data = slices.Clone(msg.Data)
	return n.boxes[msg.To].Deliver(msg)
}

func (e *endpoint) Recv(ctx context.Context, from types.Rank, tag types.Tag) (types.Message, error) {
	return e.network.boxes[e.rank].Receive(ctx, from, tag)
}
