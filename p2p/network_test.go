package p2p

import (
	"bufio"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/multiformats/go-varint"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-prefixsum/codec"
	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/log/logtest"
)

func newMocknet(tb testing.TB, size int, opts ...Opt) *Network {
	tb.Helper()
	n, err := NewMocknet(size, append([]Opt{WithLogger(logtest.New(tb))}, opts...)...)
	require.NoError(tb, err)
	tb.Cleanup(func() { n.Close() })
	return n
}

func transportOf(tb testing.TB, n *Network, rank types.Rank) comm.Transport {
	tb.Helper()
	e, err := n.Endpoint(rank)
	require.NoError(tb, err)
	return e
}

func chainTag() types.Tag {
	return types.Tag{Kind: types.KindChain, Group: types.GroupWorld}
}

func TestSendRecv(t *testing.T) {
	n := newMocknet(t, 3)
	require.Equal(t, 3, n.Size())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := types.Message{From: 0, To: 2, Tag: chainTag(), Value: -5, Data: []int64{1, 2, 3}}
	require.NoError(t, transportOf(t, n, 0).Send(ctx, msg))

	received, err := transportOf(t, n, 2).Recv(ctx, 0, chainTag())
	require.NoError(t, err)
	require.Equal(t, msg, received)
}

func TestInvalidSize(t *testing.T) {
	_, err := NewMocknet(0)
	require.ErrorIs(t, err, types.ErrConfiguration)

	n := newMocknet(t, 2)
	_, err = n.Endpoint(2)
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestDuplicateRejected(t *testing.T) {
	n := newMocknet(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := types.Message{From: 1, To: 0, Tag: chainTag(), Value: 1}
	require.NoError(t, transportOf(t, n, 1).Send(ctx, msg))
	err := transportOf(t, n, 1).Send(ctx, msg)
	require.ErrorIs(t, err, types.ErrProtocolViolation)
}

func TestSpoofedSender(t *testing.T) {
	n := newMocknet(t, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	spoofed := types.Message{From: 1, To: 2, Tag: chainTag()}
	require.ErrorIs(t, transportOf(t, n, 0).Send(ctx, spoofed), types.ErrProtocolViolation)

	// bypass local checks and write the message on a raw stream
	stream, err := n.Host(0).NewStream(ctx, n.Host(2).ID(), ProtocolID)
	require.NoError(t, err)
	defer stream.Close()
	req := codec.MustEncode(&spoofed)
	_, err = stream.Write(append(varint.ToUvarint(uint64(len(req))), req...))
	require.NoError(t, err)

	var resp Response
	_, err = codec.DecodeFrom(bufio.NewReader(stream), &resp)
	require.NoError(t, err)
	require.Equal(t, CodeViolation, resp.Code)
	require.ErrorIs(t, resp.Err(), types.ErrProtocolViolation)
}

func TestRequestLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestLimit = 32
	n := newMocknet(t, 2, WithConfig(cfg))

	msg := types.Message{From: 0, To: 1, Tag: chainTag(), Data: make([]int64, 64)}
	err := transportOf(t, n, 0).Send(context.Background(), msg)
	require.ErrorIs(t, err, types.ErrProtocolViolation)
}

func TestNotConnected(t *testing.T) {
	n := newMocknet(t, 2)
	require.NoError(t, n.Host(0).Network().ClosePeer(n.Host(1).ID()))

	err := transportOf(t, n, 0).Send(context.Background(), types.Message{From: 0, To: 1, Tag: chainTag()})
	require.ErrorIs(t, err, types.ErrCommunication)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestCloseFailsPendingRecv(t *testing.T) {
	n, err := NewMocknet(2, WithLogger(logtest.New(t)))
	require.NoError(t, err)

	e := transportOf(t, n, 1)
	errc := make(chan error, 1)
	go func() {
		_, err := e.Recv(context.Background(), 0, chainTag())
		errc <- err
	}()
	require.NoError(t, n.Close())

	select {
	case err := <-errc:
		require.ErrorIs(t, err, types.ErrCommunication)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "pending receive wasn't released")
	}
}

func TestWorldOverMocknet(t *testing.T) {
	const size = 5
	n := newMocknet(t, size)
	world, err := comm.NewWorld(n, size, comm.WithLogger(logtest.New(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = world.Run(ctx, func(ctx context.Context, c *comm.Context) error {
		next := types.Rank((int(c.Rank()) + 1) % size)
		prev := types.Rank((int(c.Rank()) + size - 1) % size)
		if err := c.Send(ctx, next, chainTag(), int64(c.Rank())*10); err != nil {
			return err
		}
		msg, err := c.Recv(ctx, prev, chainTag())
		if err != nil {
			return err
		}
		if msg.Value != int64(prev)*10 {
			return errors.New("unexpected value")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestResponse(t *testing.T) {
	for _, tc := range []struct {
		desc string
		err  error
		code Code
		is   error
	}{
		{desc: "ok", code: CodeOK},
		{desc: "violation", err: types.ErrProtocolViolation, code: CodeViolation, is: types.ErrProtocolViolation},
		{desc: "closed", err: errNetworkClosed, code: CodeCommunication, is: types.ErrCommunication},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			resp := newResponse(tc.err)
			require.Equal(t, tc.code, resp.Code)

			var decoded Response
			require.NoError(t, codec.Decode(codec.MustEncode(resp), &decoded))
			require.Equal(t, *resp, decoded)
			if tc.is == nil {
				require.NoError(t, decoded.Err())
			} else {
				require.ErrorIs(t, decoded.Err(), tc.is)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	for _, tc := range []struct {
		desc   string
		mutate func(*Config)
	}{
		{desc: "listen", mutate: func(cfg *Config) { cfg.Listen = "localhost:7513" }},
		{desc: "stream timeout", mutate: func(cfg *Config) { cfg.StreamTimeout = 0 }},
		{desc: "request limit", mutate: func(cfg *Config) { cfg.RequestLimit = -1 }},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), types.ErrConfiguration)
		})
	}

	_, err := NewLoopback(context.Background(), 2, Config{Listen: "/ip4/127.0.0.1/udp"})
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestLoopbackStartFailure(t *testing.T) {
	cfg := DefaultConfig()
	// documentation range, never assigned to a local interface
	cfg.Listen = "/ip4/203.0.113.1/tcp/0"
	_, err := NewLoopback(context.Background(), 2, cfg, WithLogger(logtest.New(t)))
	require.ErrorIs(t, err, types.ErrCommunication)
	require.ErrorContains(t, err, "start host")
}

func TestSendWithStreamTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StreamTimeout = time.Second
	n := newMocknet(t, 2, WithConfig(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg := types.Message{From: 0, To: 1, Tag: chainTag(), Value: 11}
	require.NoError(t, transportOf(t, n, 0).Send(ctx, msg))
	received, err := transportOf(t, n, 1).Recv(ctx, 0, chainTag())
	require.NoError(t, err)
	require.Equal(t, msg, received)
}
