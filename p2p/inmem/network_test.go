package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/p2p/mailbox"
)

func TestSendRecv(t *testing.T) {
	n := New(2)
	a, err := n.Endpoint(0)
	require.NoError(t, err)
	b, err := n.Endpoint(1)
	require.NoError(t, err)

	data := []int64{1, 2, 3}
	tag := types.Tag{Kind: types.KindGather, Round: 1}
	require.NoError(t, a.Send(context.Background(), types.Message{From: 0, To: 1, Tag: tag, Data: data}))
	data[0] = 100

	msg, err := b.Recv(context.Background(), 0, tag)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, msg.Data)
}

func TestEndpointOutOfRange(t *testing.T) {
	_, err := New(2).Endpoint(2)
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestSpoofedSender(t *testing.T) {
	n := New(3)
	a, err := n.Endpoint(0)
	require.NoError(t, err)
	err = a.Send(context.Background(), types.Message{From: 2, To: 1})
	require.ErrorIs(t, err, types.ErrProtocolViolation)
}

func TestUnreachable(t *testing.T) {
	n := New(3, WithUnreachable(2))
	a, err := n.Endpoint(0)
	require.NoError(t, err)
	err = a.Send(context.Background(), types.Message{From: 0, To: 2})
	require.ErrorIs(t, err, ErrUnreachable)
	require.ErrorIs(t, err, types.ErrCommunication)
	require.NoError(t, a.Send(context.Background(), types.Message{From: 0, To: 1}))
}

func TestDropFilter(t *testing.T) {
	n := New(2, WithDropFilter(func(msg types.Message) bool {
		return msg.Tag.Kind == types.KindHandoff
	}))
	a, err := n.Endpoint(0)
	require.NoError(t, err)
	require.NoError(t, a.Send(context.Background(), types.Message{
		From: 0, To: 1, Tag: types.Tag{Kind: types.KindHandoff},
	}))
	require.Zero(t, n.boxes[1].Pending())
}

func TestClose(t *testing.T) {
	n := New(2)
	b, err := n.Endpoint(1)
	require.NoError(t, err)
	require.NoError(t, n.Close())
	_, err = b.Recv(context.Background(), 0, types.Tag{})
	require.ErrorIs(t, err, mailbox.ErrClosed)
}
