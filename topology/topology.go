// Package topology splits a run of P ranks into a power-of-two active group
// and a serial overflow tail.
package topology

import (
	"fmt"
	"math/bits"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Group is a contiguous range of ranks [Lo, Hi).
type Group struct {
	ID types.GroupID
	Lo types.Rank
	Hi types.Rank
}

// Len returns the number of ranks in the group.
func (g Group) Len() int {
	return int(g.Hi - g.Lo)
}

// Contains is true if rank is a member of the group.
func (g Group) Contains(rank types.Rank) bool {
	return rank >= g.Lo && rank < g.Hi
}

func (g Group) String() string {
	return fmt.Sprintf("%s[%d,%d)", g.ID, g.Lo, g.Hi)
}

// Layout is the partition of a run. It is computed once at start and never changes.
type Layout struct {
	Size   int
	Active int
}

// Partition computes the layout for size ranks. Active is the largest power of two <= size.
func Partition(size int) (Layout, error) {
	if size < 1 {
		return Layout{}, fmt.Errorf("%w: node count must be positive, got %d", types.ErrConfiguration, size)
	}
	if uint64(size) > uint64(^types.Rank(0)) {
		return Layout{}, fmt.Errorf("%w: node count %d doesn't fit into rank", types.ErrConfiguration, size)
	}
	return Layout{
		Size:   size,
		Active: 1 << (bits.Len(uint(size)) - 1),
	}, nil
}

// Overflow returns the number of ranks in the overflow tail.
func (l Layout) Overflow() int {
	return l.Size - l.Active
}

// Rounds returns the number of exchange rounds in the active group, log2(Active).
func (l Layout) Rounds() int {
	return bits.TrailingZeros(uint(l.Active))
}

// Color returns the partition of the rank.
func (l Layout) Color(rank types.Rank) types.Color {
	if int(rank) < l.Active {
		return types.Active
	}
	return types.Overflow
}

// ActiveGroup returns the ranks [0, Active).
func (l Layout) ActiveGroup() Group {
	return Group{ID: types.GroupActive, Lo: 0, Hi: types.Rank(l.Active)}
}

// World returns all ranks [0, Size).
func (l Layout) World() Group {
	return Group{ID: types.GroupWorld, Lo: 0, Hi: types.Rank(l.Size)}
}

// Last returns the highest rank of the run.
func (l Layout) Last() types.Rank {
	return types.Rank(l.Size - 1)
}

func (l Layout) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("size", l.Size)
	encoder.AddInt("active", l.Active)
	encoder.AddInt("overflow", l.Overflow())
	encoder.AddInt("rounds", l.Rounds())
	return nil
}

// Partners are the peers of a rank in a single exchange round.
type Partners struct {
	Send    types.Rank
	Recv    types.Rank
	HasSend bool
	HasRecv bool
}

// RoundPartners returns the peers of rank in the given round of an exchange over
// an active group of the given size: rank sends to rank+2^round and receives
// from rank-2^round, when those are inside the group.
func RoundPartners(rank types.Rank, active int, round int) Partners {
	var (
		p      Partners
		offset = uint64(1) << round
		r      = uint64(rank)
	)
	if r+offset < uint64(active) {
		p.Send = types.Rank(r + offset)
		p.HasSend = true
	}
	if r >= offset {
		p.Recv = types.Rank(r - offset)
		p.HasRecv = true
	}
	return p
}
