package scan_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/log/logtest"
	"github.com/spacemeshos/go-prefixsum/scan"
	"github.com/spacemeshos/go-prefixsum/topology"
)

type nodeTester struct {
	*scan.Node
	transport *comm.MockTransport
	rank      types.Rank
}

func newNodeTester(tb testing.TB, rank types.Rank, size int, value int64) *nodeTester {
	tb.Helper()
	transport := comm.NewMockTransport(gomock.NewController(tb))
	c := comm.NewContext(rank, size, transport, comm.WithLogger(logtest.New(tb)))
	layout, err := topology.Partition(size)
	require.NoError(tb, err)
	node, err := scan.NewNode(c, layout, value)
	require.NoError(tb, err)
	return &nodeTester{Node: node, transport: transport, rank: rank}
}

func (nt *nodeTester) expectSend(to types.Rank, tag types.Tag, value int64) *comm.MockTransportSendCall {
	return nt.transport.EXPECT().
		Send(gomock.Any(), types.Message{From: nt.rank, To: to, Tag: tag, Value: value}).
		Return(nil)
}

func (nt *nodeTester) expectRecv(from types.Rank, tag types.Tag, value int64) *comm.MockTransportRecvCall {
	return nt.transport.EXPECT().
		Recv(gomock.Any(), from, tag).
		Return(types.Message{From: from, To: nt.rank, Tag: tag, Value: value}, nil)
}

func exchange(round uint32) types.Tag {
	return types.Tag{Kind: types.KindExchange, Group: types.GroupActive, Round: round}
}

func barrierTag(group types.GroupID, epoch, step uint32) types.Tag {
	return types.Tag{Kind: types.KindBarrier, Group: group, Round: epoch, Step: step}
}

var (
	handoff = types.Tag{Kind: types.KindHandoff, Group: types.GroupWorld}
	chain   = types.Tag{Kind: types.KindChain, Group: types.GroupWorld}
)

func TestNodeSendsBeforeUpdate(t *testing.T) {
	nt := newNodeTester(t, 0, 2, 10)
	gomock.InOrder(
		nt.expectSend(1, exchange(0), 10),
		nt.expectSend(1, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectRecv(1, barrierTag(types.GroupActive, 0, 0), 0),
	)
	require.NoError(t, nt.Run(context.Background()))
	result, err := nt.Result()
	require.NoError(t, err)
	require.Equal(t, scan.Result{Rank: 0, Value: 10, Prefix: 10}, result)
}

func TestNodeAddsReceived(t *testing.T) {
	nt := newNodeTester(t, 1, 2, 5)
	gomock.InOrder(
		nt.expectRecv(0, exchange(0), 10),
		nt.expectSend(0, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectRecv(0, barrierTag(types.GroupActive, 0, 0), 0),
	)
	require.NoError(t, nt.Run(context.Background()))
	result, err := nt.Result()
	require.NoError(t, err)
	require.Equal(t, int64(15), result.Prefix)
	require.Equal(t, scan.Done, nt.State())
}

func TestNodeRoundsUseFreshBarrierEpochs(t *testing.T) {
	// rank 2 of 4: sends to 3 in round 0, receives from 1 in round 0 and from 0 in round 1
	nt := newNodeTester(t, 2, 4, 2)
	gomock.InOrder(
		nt.expectSend(3, exchange(0), 2),
		nt.expectRecv(1, exchange(0), 1),
		nt.expectSend(3, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectRecv(1, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectSend(0, barrierTag(types.GroupActive, 0, 1), 0),
		nt.expectRecv(0, barrierTag(types.GroupActive, 0, 1), 0),
		nt.expectRecv(0, exchange(1), 0),
		nt.expectSend(3, barrierTag(types.GroupActive, 1, 0), 0),
		nt.expectRecv(1, barrierTag(types.GroupActive, 1, 0), 0),
		nt.expectSend(0, barrierTag(types.GroupActive, 1, 1), 0),
		nt.expectRecv(0, barrierTag(types.GroupActive, 1, 1), 0),
	)
	require.NoError(t, nt.Run(context.Background()))
	result, err := nt.Result()
	require.NoError(t, err)
	require.Equal(t, int64(3), result.Prefix)
}

func TestNodeHandoff(t *testing.T) {
	nt := newNodeTester(t, 1, 3, 1)
	gomock.InOrder(
		nt.expectRecv(0, exchange(0), 0),
		nt.expectSend(0, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectRecv(0, barrierTag(types.GroupActive, 0, 0), 0),
		nt.expectSend(2, barrierTag(types.GroupWorld, 0, 0), 0),
		nt.expectRecv(0, barrierTag(types.GroupWorld, 0, 0), 0),
		nt.expectSend(0, barrierTag(types.GroupWorld, 0, 1), 0),
		nt.expectRecv(2, barrierTag(types.GroupWorld, 0, 1), 0),
		nt.expectSend(2, handoff, 1),
	)
	require.NoError(t, nt.Run(context.Background()))
	result, err := nt.Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Prefix)
}

func TestNodeChain(t *testing.T) {
	t.Run("first overflow", func(t *testing.T) {
		// rank 4 of 6 receives the hand-off and forwards to 5
		nt := newNodeTester(t, 4, 6, 4)
		// world barrier of 6 ranks takes 3 steps
		nt.transport.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, msg types.Message) error {
				if msg.Tag.Kind != types.KindBarrier {
					return fmt.Errorf("unexpected %s", msg.Tag)
				}
				return nil
			}).Times(3)
		nt.transport.EXPECT().Recv(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, from types.Rank, tag types.Tag) (types.Message, error) {
				if tag.Kind != types.KindBarrier {
					return types.Message{}, fmt.Errorf("unexpected %s", tag)
				}
				return types.Message{From: from, To: 4, Tag: tag}, nil
			}).Times(3)
		gomock.InOrder(
			nt.expectRecv(3, handoff, 6),
			nt.expectSend(5, chain, 10),
		)
		require.NoError(t, nt.Run(context.Background()))
		result, err := nt.Result()
		require.NoError(t, err)
		require.Equal(t, int64(10), result.Prefix)
	})
	t.Run("last", func(t *testing.T) {
		nt := newNodeTester(t, 2, 3, 2)
		gomock.InOrder(
			nt.expectSend(0, barrierTag(types.GroupWorld, 0, 0), 0),
			nt.expectRecv(1, barrierTag(types.GroupWorld, 0, 0), 0),
			nt.expectSend(1, barrierTag(types.GroupWorld, 0, 1), 0),
			nt.expectRecv(0, barrierTag(types.GroupWorld, 0, 1), 0),
			nt.expectRecv(1, handoff, 1),
		)
		require.NoError(t, nt.Run(context.Background()))
		result, err := nt.Result()
		require.NoError(t, err)
		require.Equal(t, scan.Result{Rank: 2, Value: 2, Prefix: 3}, result)
	})
}

func TestNodeFailure(t *testing.T) {
	nt := newNodeTester(t, 1, 2, 5)
	_, err := nt.Result()
	require.ErrorIs(t, err, scan.ErrNotDone)
	require.Equal(t, scan.Idle, nt.State())

	cause := errors.New("link down")
	nt.transport.EXPECT().Recv(gomock.Any(), types.Rank(0), exchange(0)).Return(types.Message{}, cause)
	err = nt.Run(context.Background())
	require.ErrorIs(t, err, scan.ErrCommunication)
	require.ErrorIs(t, err, cause)
	require.Equal(t, scan.Failed, nt.State())

	_, err = nt.Result()
	require.ErrorIs(t, err, scan.ErrNotDone)
	require.Error(t, nt.Run(context.Background()))
}

func TestNodeUnexpectedMessage(t *testing.T) {
	nt := newNodeTester(t, 1, 2, 5)
	nt.transport.EXPECT().Recv(gomock.Any(), types.Rank(0), exchange(0)).
		Return(types.Message{From: 0, To: 1, Tag: exchange(1), Value: 3}, nil)
	err := nt.Run(context.Background())
	require.ErrorIs(t, err, scan.ErrProtocolViolation)
	require.Equal(t, scan.Failed, nt.State())
}

func TestNewNodeLayoutMismatch(t *testing.T) {
	c := comm.NewContext(0, 4, comm.NewMockTransport(gomock.NewController(t)))
	layout, err := topology.Partition(5)
	require.NoError(t, err)
	_, err = scan.NewNode(c, layout, 0)
	require.ErrorIs(t, err, scan.ErrConfiguration)
}

type doneTracer struct {
	scan.Tracer
	done []scan.Result
}

func (t *doneTracer) OnDone(result scan.Result) {
	t.done = append(t.done, result)
}

func TestNodeReportsResultOnDone(t *testing.T) {
	transport := comm.NewMockTransport(gomock.NewController(t))
	c := comm.NewContext(0, 1, transport, comm.WithLogger(logtest.New(t)))
	layout, err := topology.Partition(1)
	require.NoError(t, err)
	tracer := &doneTracer{}
	node, err := scan.NewNode(c, layout, -7, scan.WithTracer(tracer))
	require.NoError(t, err)

	require.NoError(t, node.Run(context.Background()))
	result, err := node.Result()
	require.NoError(t, err)
	require.Equal(t, scan.Result{Rank: 0, Value: -7, Prefix: -7}, result)
	require.Equal(t, []scan.Result{result}, tracer.done)
}
