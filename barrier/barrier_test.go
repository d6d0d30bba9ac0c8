package barrier_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-prefixsum/barrier"
	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/log/logtest"
	"github.com/spacemeshos/go-prefixsum/p2p/inmem"
	"github.com/spacemeshos/go-prefixsum/topology"
)

func newWorld(tb testing.TB, size int) *comm.World {
	tb.Helper()
	world, err := comm.NewWorld(inmem.New(size), size, comm.WithLogger(logtest.New(tb)))
	require.NoError(tb, err)
	tb.Cleanup(func() { require.NoError(tb, world.Close()) })
	return world
}

func TestBarrierSteps(t *testing.T) {
	for _, tc := range []struct {
		size, steps int
	}{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4},
	} {
		c := comm.NewContext(0, tc.size, nil)
		b, err := barrier.New(c, topology.Group{ID: types.GroupWorld, Hi: types.Rank(tc.size)})
		require.NoError(t, err)
		require.Equal(t, tc.steps, b.Steps(), "size %d", tc.size)
	}
}

func TestBarrierNotMember(t *testing.T) {
	c := comm.NewContext(5, 6, nil)
	_, err := barrier.New(c, topology.Group{ID: types.GroupActive, Hi: 4})
	require.ErrorIs(t, err, types.ErrConfiguration)

	_, err = barrier.New(c, topology.Group{ID: types.GroupWorld, Hi: 7})
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestBarrierNoEarlyRelease(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 8, 13} {
		t.Run(types.Rank(size).String(), func(t *testing.T) {
			const epochs = 4
			var arrived atomic.Int64
			world := newWorld(t, size)
			group := topology.Group{ID: types.GroupWorld, Hi: types.Rank(size)}
			err := world.Run(context.Background(), func(ctx context.Context, c *comm.Context) error {
				b, err := barrier.New(c, group)
				if err != nil {
					return err
				}
				for epoch := range epochs {
					if c.Rank() == 0 {
						// the slowest rank, everyone else waits for it
						time.Sleep(time.Millisecond)
					}
					arrived.Add(1)
					if err := b.Wait(ctx); err != nil {
						return err
					}
					if got := arrived.Load(); got < int64((epoch+1)*size) {
						return fmt.Errorf("released at epoch %d after %d arrivals", epoch, got)
					}
				}
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestBarrierSubgroup(t *testing.T) {
	const size = 6
	layout, err := topology.Partition(size)
	require.NoError(t, err)
	world := newWorld(t, size)

	var released atomic.Int64
	err = world.Run(context.Background(), func(ctx context.Context, c *comm.Context) error {
		if layout.Color(c.Rank()) != types.Active {
			return nil
		}
		b, err := barrier.New(c, layout.ActiveGroup())
		if err != nil {
			return err
		}
		if err := b.Wait(ctx); err != nil {
			return err
		}
		released.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(layout.Active), released.Load())
}

func TestBarrierMissingMember(t *testing.T) {
	const size = 4
	world := newWorld(t, size)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := world.Run(ctx, func(ctx context.Context, c *comm.Context) error {
		if c.Rank() == 3 {
			return nil
		}
		b, err := barrier.New(c, topology.Group{ID: types.GroupWorld, Hi: size})
		if err != nil {
			return err
		}
		return b.Wait(ctx)
	})
	require.ErrorIs(t, err, types.ErrCommunication)
}
