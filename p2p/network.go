// Package p2p connects ranks through libp2p hosts. Every message travels on
// its own stream and is acknowledged by the receiving host.
package p2p

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/multiformats/go-varint"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/codec"
	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/p2p/mailbox"
)

// ProtocolID is the stream protocol carrying prefixsum messages.
const ProtocolID = protocol.ID("/prefixsum/msg/1")

// ErrNotConnected is returned when the host of the receiver is not connected.
var ErrNotConnected = errors.New("peer is not connected")

var errNetworkClosed = errors.New("network closed")

// Opt configures Network.
type Opt func(*Network)

// WithLogger configures logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(n *Network) {
		n.log = logger
	}
}

// WithConfig overwrites the default config.
func WithConfig(cfg Config) Opt {
	return func(n *Network) {
		n.cfg = cfg
	}
}

// Network assigns rank i to the i-th host.
type Network struct {
	log   *zap.Logger
	cfg   Config
	hosts []host.Host
	ranks map[peer.ID]types.Rank
	boxes []*mailbox.Mailbox
	close func() error
}

// NewMocknet creates network of size hosts connected by in-process libp2p links.
func NewMocknet(size int, opts ...Opt) (*Network, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: network size must be positive, got %d", types.ErrConfiguration, size)
	}
	mesh, err := mocknet.FullMeshConnected(size)
	if err != nil {
		return nil, fmt.Errorf("mocknet: %w", err)
	}
	return newNetwork(mesh.Hosts(), mesh.Close, opts...), nil
}

// NewLoopback starts size libp2p hosts listening on cfg.Listen and connects
// every pair of them.
func NewLoopback(ctx context.Context, size int, cfg Config, opts ...Opt) (*Network, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: network size must be positive, got %d", types.ErrConfiguration, size)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	listen, err := ma.NewMultiaddr(cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	hosts := make([]host.Host, 0, size)
	closeAll := func() error {
		var errs []error
		for _, h := range hosts {
			errs = append(errs, h.Close())
		}
		return errors.Join(errs...)
	}
	for range size {
		h, err := libp2p.New(
			libp2p.ListenAddrs(listen),
			libp2p.Ping(false),
			libp2p.DisableRelay(),
		)
		if err != nil {
			err = fmt.Errorf("%w: start host: %w", types.ErrCommunication, err)
			return nil, errors.Join(err, closeAll())
		}
		hosts = append(hosts, h)
	}
	for i, h := range hosts {
		for _, other := range hosts[i+1:] {
			info := peer.AddrInfo{ID: other.ID(), Addrs: other.Addrs()}
			if err := h.Connect(ctx, info); err != nil {
				err = fmt.Errorf("%w: connect %s to %s: %w", types.ErrCommunication, h.ID(), other.ID(), err)
				return nil, errors.Join(err, closeAll())
			}
		}
	}
	return newNetwork(hosts, closeAll, append([]Opt{WithConfig(cfg)}, opts...)...), nil
}

func newNetwork(hosts []host.Host, closer func() error, opts ...Opt) *Network {
	n := &Network{
		log:   zap.NewNop(),
		cfg:   DefaultConfig(),
		hosts: hosts,
		ranks: make(map[peer.ID]types.Rank, len(hosts)),
		boxes: make([]*mailbox.Mailbox, len(hosts)),
		close: closer,
	}
	for _, opt := range opts {
		opt(n)
	}
	for i, h := range hosts {
		rank := types.Rank(i)
		n.ranks[h.ID()] = rank
		n.boxes[i] = mailbox.New(rank)
		h.SetStreamHandler(ProtocolID, func(stream network.Stream) {
			n.handle(rank, stream)
		})
	}
	n.log.Debug("network ready", zap.Int("size", len(hosts)))
	return n
}

// Size returns the number of hosts.
func (n *Network) Size() int {
	return len(n.hosts)
}

// Host returns the host assigned to rank.
func (n *Network) Host(rank types.Rank) host.Host {
	return n.hosts[rank]
}

// Endpoint returns transport of the rank.
func (n *Network) Endpoint(rank types.Rank) (comm.Transport, error) {
	if int(rank) >= len(n.hosts) {
		return nil, fmt.Errorf("%w: rank %d outside of network with %d hosts",
			types.ErrConfiguration, rank, len(n.hosts))
	}
	return &endpoint{network: n, rank: rank}, nil
}

// Close fails pending receives and stops every host.
func (n *Network) Close() error {
	for i, h := range n.hosts {
		h.RemoveStreamHandler(ProtocolID)
		n.boxes[i].Close(errNetworkClosed)
	}
	return n.close()
}

func (n *Network) handle(rank types.Rank, stream network.Stream) {
	defer stream.Close()
	remote := stream.Conn().RemotePeer()
	logger := n.log.With(
		zap.Uint32("rank", rank.Uint32()),
		zap.Stringer("remotePeer", remote),
	)
	if n.cfg.StreamTimeout > 0 {
		if err := stream.SetDeadline(time.Now().Add(n.cfg.StreamTimeout)); err != nil {
			logger.Debug("failed to set stream deadline", zap.Error(err))
		}
	}
	msg, err := n.readMessage(stream)
	if err != nil {
		failedStreams.Inc()
		logger.Debug("error reading request", zap.Error(err))
		stream.Reset()
		return
	}
	err = n.accept(rank, remote, msg)
	if err != nil {
		rejectedStreams.Inc()
		logger.Debug("message rejected", zap.Inline(&msg), zap.Error(err))
	} else {
		acceptedStreams.Inc()
	}
	if err := writeResponse(stream, newResponse(err)); err != nil {
		logger.Debug("error writing response", zap.Error(err))
	}
}

func (n *Network) readMessage(stream io.Reader) (types.Message, error) {
	rd := bufio.NewReader(stream)
	size, err := varint.ReadUvarint(rd)
	if err != nil {
		return types.Message{}, fmt.Errorf("read length: %w", err)
	}
	if size > uint64(n.cfg.RequestLimit) {
		return types.Message{}, fmt.Errorf("request of %d bytes exceeds limit %d", size, n.cfg.RequestLimit)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(rd, buf); err != nil {
		return types.Message{}, fmt.Errorf("read body: %w", err)
	}
	var msg types.Message
	if err := codec.Decode(buf, &msg); err != nil {
		return types.Message{}, err
	}
	return msg, nil
}

func (n *Network) accept(rank types.Rank, remote peer.ID, msg types.Message) error {
	from, exist := n.ranks[remote]
	if !exist {
		return fmt.Errorf("%w: message from unknown peer %s", types.ErrProtocolViolation, remote)
	}
	if msg.From != from {
		return fmt.Errorf("%w: peer of rank %d sends on behalf of %d", types.ErrProtocolViolation, from, msg.From)
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return n.boxes[rank].Deliver(msg)
}

type endpoint struct {
	network *Network
	rank    types.Rank
}

func (e *endpoint) Send(ctx context.Context, msg types.Message) error {
	if msg.From != e.rank {
		return fmt.Errorf("%w: rank %d sends on behalf of %d", types.ErrProtocolViolation, e.rank, msg.From)
	}
	n := e.network
	if int(msg.To) >= len(n.hosts) {
		return fmt.Errorf("%w: rank %d outside of network", types.ErrProtocolViolation, msg.To)
	}
	req, err := codec.Encode(&msg)
	if err != nil {
		return err
	}
	if len(req) > n.cfg.RequestLimit {
		return fmt.Errorf("%w: request of %d bytes exceeds limit %d",
			types.ErrProtocolViolation, len(req), n.cfg.RequestLimit)
	}
	local := n.hosts[e.rank]
	pid := n.hosts[msg.To].ID()
	if local.Network().Connectedness(pid) != network.Connected {
		return fmt.Errorf("%w: %w: rank %d (%s)", types.ErrCommunication, ErrNotConnected, msg.To, pid)
	}

	start := time.Now()
	err = e.request(ctx, local, pid, req)
	if err != nil {
		sendFailed.Observe(time.Since(start).Seconds())
		return err
	}
	sendSucceeded.Observe(time.Since(start).Seconds())
	return nil
}

func (e *endpoint) request(ctx context.Context, local host.Host, pid peer.ID, req []byte) error {
	stream, err := local.NewStream(network.WithNoDial(ctx, "existing connection"), pid, ProtocolID)
	if err != nil {
		return fmt.Errorf("%w: open stream to %s: %w", types.ErrCommunication, pid, err)
	}
	defer stream.Close()
	stop := context.AfterFunc(ctx, func() { stream.Reset() })
	defer stop()
	if timeout := e.network.cfg.StreamTimeout; timeout > 0 {
		if err := stream.SetDeadline(time.Now().Add(timeout)); err != nil {
			e.network.log.Debug("failed to set stream deadline",
				zap.Stringer("remotePeer", pid),
				zap.Error(err),
			)
		}
	}

	wr := bufio.NewWriter(stream)
	if _, err := wr.Write(varint.ToUvarint(uint64(len(req)))); err != nil {
		return fmt.Errorf("%w: peer %s: %w", types.ErrCommunication, pid, err)
	}
	if _, err := wr.Write(req); err != nil {
		return fmt.Errorf("%w: peer %s: %w", types.ErrCommunication, pid, err)
	}
	if err := wr.Flush(); err != nil {
		return fmt.Errorf("%w: peer %s: %w", types.ErrCommunication, pid, err)
	}
	var resp Response
	if _, err := codec.DecodeFrom(bufio.NewReader(stream), &resp); err != nil {
		return fmt.Errorf("%w: read ack from %s: %w", types.ErrCommunication, pid, err)
	}
	return resp.Err()
}

func (e *endpoint) Recv(ctx context.Context, from types.Rank, tag types.Tag) (types.Message, error) {
	return e.network.boxes[e.rank].Receive(ctx, from, tag)
}

func writeResponse(w io.Writer, resp *Response) error {
	wr := bufio.NewWriter(w)
	if _, err := codec.EncodeTo(wr, resp); err != nil {
		return fmt.Errorf("failed to write response (code %d err len %d): %w", resp.Code, len(resp.Error), err)
	}
	if err := wr.Flush(); err != nil {
		return fmt.Errorf("failed to write response (code %d err len %d): %w", resp.Code, len(resp.Error), err)
	}
	return nil
}
