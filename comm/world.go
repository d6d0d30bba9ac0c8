package comm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

type options struct {
	log         *zap.Logger
	clock       clockwork.Clock
	recvTimeout time.Duration
}

func defaultOptions() options {
	return options{
		log:   zap.NewNop(),
		clock: clockwork.NewRealClock(),
	}
}

// Opt configures World and Context.
type Opt func(*options)

// WithLogger configures logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(o *options) {
		o.log = logger
	}
}

// WithClock configures clock used for receive timeouts.
func WithClock(clock clockwork.Clock) Opt {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRecvTimeout fails a receive that doesn't complete within timeout.
// Zero waits forever.
func WithRecvTimeout(timeout time.Duration) Opt {
	return func(o *options) {
		o.recvTimeout = timeout
	}
}

// World is the runtime of a single run: a fixed set of ranks, each with its
// own context. It is created at run start and closed at run end.
type World struct {
	log      *zap.Logger
	network  Network
	contexts []*Context
}

// NewWorld creates contexts for size ranks connected by network.
func NewWorld(network Network, size int, opts ...Opt) (*World, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: world size must be positive, got %d", types.ErrConfiguration, size)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := &World{
		log:      o.log,
		network:  network,
		contexts: make([]*Context, size),
	}
	for i := range w.contexts {
		rank := types.Rank(i)
		transport, err := network.Endpoint(rank)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", rank, err)
		}
		w.contexts[i] = newContext(rank, size, transport, o)
	}
	return w, nil
}

// Size returns number of ranks.
func (w *World) Size() int {
	return len(w.contexts)
}

// Run executes fn for every rank concurrently and waits for all of them.
// The first failure cancels every other rank and is returned.
func (w *World) Run(ctx context.Context, fn func(context.Context, *Context) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range w.contexts {
		eg.Go(func() error {
			runningRanks.Inc()
			defer runningRanks.Dec()
			if err := fn(ctx, c); err != nil {
				return fmt.Errorf("rank %d: %w", c.rank, err)
			}
			return nil
		})
	}
	err := eg.Wait()
	if err != nil {
		w.log.Error("run aborted", zap.Int("size", w.Size()), zap.Error(err))
	}
	return err
}

// Close releases the network.
func (w *World) Close() error {
	if err := w.network.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close network: %w", err)
	}
	return nil
}
