// Package comm provides the per-rank messaging context and the runtime that
// executes one goroutine per rank.
package comm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

var errRecvTimeout = errors.New("receive timed out")

// Context is the identity and messaging capability of a single rank.
type Context struct {
	rank      types.Rank
	size      int
	transport Transport

	log         *zap.Logger
	clock       clockwork.Clock
	recvTimeout time.Duration
}

// NewContext creates context for rank in a run of size ranks.
func NewContext(rank types.Rank, size int, transport Transport, opts ...Opt) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newContext(rank, size, transport, o)
}

func newContext(rank types.Rank, size int, transport Transport, o options) *Context {
	return &Context{
		rank:        rank,
		size:        size,
		transport:   transport,
		log:         o.log.With(zap.Uint32("rank", rank.Uint32())),
		clock:       o.clock,
		recvTimeout: o.recvTimeout,
	}
}

// Rank returns the rank of the context owner.
func (c *Context) Rank() types.Rank {
	return c.rank
}

// Size returns the number of ranks in the run.
func (c *Context) Size() int {
	return c.size
}

// Logger returns logger annotated with the rank.
func (c *Context) Logger() *zap.Logger {
	return c.log
}

// Send sends a scalar value to rank to.
func (c *Context) Send(ctx context.Context, to types.Rank, tag types.Tag, value int64) error {
	return c.send(ctx, types.Message{From: c.rank, To: to, Tag: tag, Value: value})
}

// SendData sends a vector to rank to.
func (c *Context) SendData(ctx context.Context, to types.Rank, tag types.Tag, data []int64) error {
	return c.send(ctx, types.Message{From: c.rank, To: to, Tag: tag, Data: data})
}

func (c *Context) send(ctx context.Context, msg types.Message) error {
	if int(msg.To) >= c.size {
		return fmt.Errorf("%w: send %s to %d outside of [0, %d)", types.ErrProtocolViolation, msg.Tag, msg.To, c.size)
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := c.transport.Send(ctx, msg); err != nil {
		sendFailures.Inc()
		return classify(ctx, fmt.Sprintf("send %s to %d", msg.Tag, msg.To), err)
	}
	sentMessages.WithLabelValues(msg.Tag.Kind.String()).Inc()
	c.log.Debug("sent", zap.Inline(&msg))
	return nil
}

// Recv blocks until the message with tag from rank from arrives. If the
// receive timeout is configured and expires the run fails with a
// communication error.
func (c *Context) Recv(ctx context.Context, from types.Rank, tag types.Tag) (types.Message, error) {
	if int(from) >= c.size {
		return types.Message{}, fmt.Errorf("%w: recv %s from %d outside of [0, %d)",
			types.ErrProtocolViolation, tag, from, c.size)
	}
	if c.recvTimeout > 0 {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		timer := c.clock.AfterFunc(c.recvTimeout, func() {
			cancel(fmt.Errorf("%w after %v", errRecvTimeout, c.recvTimeout))
		})
		defer timer.Stop()
		defer cancel(nil)
	}
	start := c.clock.Now()
	msg, err := c.transport.Recv(ctx, from, tag)
	if err != nil {
		recvFailures.Inc()
		if errors.Is(context.Cause(ctx), errRecvTimeout) {
			recvTimeouts.Inc()
		}
		return types.Message{}, classify(ctx, fmt.Sprintf("recv %s from %d", tag, from), err)
	}
	recvWait.WithLabelValues(tag.Kind.String()).Observe(c.clock.Since(start).Seconds())
	if msg.From != from || msg.To != c.rank || msg.Tag != tag {
		return types.Message{}, fmt.Errorf("%w: expected %s from %d to %d, got %s from %d to %d",
			types.ErrProtocolViolation, tag, from, c.rank, msg.Tag, msg.From, msg.To)
	}
	receivedMessages.WithLabelValues(tag.Kind.String()).Inc()
	c.log.Debug("received", zap.Inline(&msg))
	return msg, nil
}

// classify keeps protocol violations and communication errors as they are and
// wraps everything else, including cancellation, into a communication error.
func classify(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, types.ErrProtocolViolation), errors.Is(err, types.ErrCommunication):
		return fmt.Errorf("%s: %w", op, err)
	case ctx.Err() != nil:
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, ctx.Err()) {
			return fmt.Errorf("%w: %s: %w", types.ErrCommunication, op, cause)
		}
		return fmt.Errorf("%w: %s: aborted: %w", types.ErrCommunication, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", types.ErrCommunication, op, err)
	}
}
