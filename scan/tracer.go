package scan

import "github.com/spacemeshos/go-prefixsum/common/types"

// Tracer observes protocol progress. Every rank calls it from its own
// goroutine, implementations must be safe for concurrent use.
type Tracer interface {
	// OnRound is called after the round barrier released the rank.
	OnRound(rank types.Rank, round int, prefix int64)
	// OnHandoff is called by the last active rank after it sent its total.
	OnHandoff(from, to types.Rank, total int64)
	// OnChain is called by an overflow rank once its prefix is final.
	OnChain(rank types.Rank, prefix int64)
	// OnDone is called when the rank reached Done.
	OnDone(result Result)
}

type noopTracer struct{}

func (noopTracer) OnRound(types.Rank, int, int64)           {}
func (noopTracer) OnHandoff(types.Rank, types.Rank, int64) {}
func (noopTracer) OnChain(types.Rank, int64)                {}
func (noopTracer) OnDone(Result)                            {}
