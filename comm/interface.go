package comm

import (
	"context"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

//go:generate mockgen -typed -package=comm -destination=./mocks.go -source=./interface.go

// Transport moves messages of a single rank. Send may return before the
// receiver calls Recv, Recv blocks until the message addressed by (from, tag)
// arrives.
type Transport interface {
	Send(ctx context.Context, msg types.Message) error
	Recv(ctx context.Context, from types.Rank, tag types.Tag) (types.Message, error)
}

// Network hands out a transport for every rank of the run.
type Network interface {
	Endpoint(rank types.Rank) (Transport, error)
	Close() error
}
