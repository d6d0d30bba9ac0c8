// Package scan computes an inclusive prefix sum over values held by separate
// ranks. A power-of-two active group runs a recursive-doubling exchange and
// the remaining ranks extend its result through a serial chain.
package scan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/barrier"
	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/topology"
)

// State of a node. Done and Failed are terminal.
type State uint8

const (
	Idle State = iota
	Exchanging
	GroupDone
	Chaining
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Exchanging:
		return "exchanging"
	case GroupDone:
		return "group done"
	case Chaining:
		return "chaining"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

type options struct {
	log    *zap.Logger
	tracer Tracer
}

func defaultOptions() options {
	return options{
		log:    zap.NewNop(),
		tracer: noopTracer{},
	}
}

// Opt configures Run and Node.
type Opt func(*options)

// WithLogger configures logger for run level events. Nodes log with the
// logger of their comm.Context.
func WithLogger(logger *zap.Logger) Opt {
	return func(o *options) {
		o.log = logger
	}
}

// WithTracer configures tracer.
func WithTracer(tracer Tracer) Opt {
	return func(o *options) {
		o.tracer = tracer
	}
}

// Node runs the protocol for a single rank. It is owned by the goroutine
// of that rank.
type Node struct {
	c      *comm.Context
	log    *zap.Logger
	tracer Tracer
	layout topology.Layout

	value  int64
	prefix int64
	state  State

	active *barrier.Barrier
	world  *barrier.Barrier
}

// NewNode creates node for the rank of c holding value.
func NewNode(c *comm.Context, layout topology.Layout, value int64, opts ...Opt) (*Node, error) {
	if layout.Size != c.Size() {
		return nil, fmt.Errorf("%w: layout for %d ranks in run of %d", ErrConfiguration, layout.Size, c.Size())
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := &Node{
		c:      c,
		log:    c.Logger(),
		tracer: o.tracer,
		layout: layout,
		value:  value,
		prefix: value,
	}
	var err error
	if layout.Color(c.Rank()) == types.Active {
		if n.active, err = barrier.New(c, layout.ActiveGroup()); err != nil {
			return nil, err
		}
	}
	if layout.Overflow() > 0 {
		if n.world, err = barrier.New(c, layout.World()); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// State returns the current state.
func (n *Node) State() State {
	return n.state
}

// Result returns the final prefix. It fails with ErrNotDone until the node
// reached Done.
func (n *Node) Result() (Result, error) {
	if n.state != Done {
		return Result{}, fmt.Errorf("%w: rank %d is %s", ErrNotDone, n.c.Rank(), n.state)
	}
	return Result{Rank: n.c.Rank(), Value: n.value, Prefix: n.prefix}, nil
}

// Run drives the node from Idle to Done. Any error moves it to Failed.
func (n *Node) Run(ctx context.Context) error {
	if n.state != Idle {
		return fmt.Errorf("rank %d already started (%s)", n.c.Rank(), n.state)
	}
	var err error
	if n.layout.Color(n.c.Rank()) == types.Active {
		err = n.runActive(ctx)
	} else {
		err = n.runOverflow(ctx)
	}
	if err != nil {
		n.state = Failed
		return err
	}
	n.state = Done
	result := Result{Rank: n.c.Rank(), Value: n.value, Prefix: n.prefix}
	n.log.Debug("rank done", zap.Inline(&result))
	n.tracer.OnDone(result)
	return nil
}

func (n *Node) runActive(ctx context.Context) error {
	n.state = Exchanging
	if err := n.exchange(ctx); err != nil {
		return err
	}
	n.state = GroupDone
	if n.world == nil {
		return nil
	}
	if err := n.world.Wait(ctx); err != nil {
		return err
	}
	if n.c.Rank() == n.layout.ActiveGroup().Hi-1 {
		return n.handoff(ctx)
	}
	return nil
}

func (n *Node) runOverflow(ctx context.Context) error {
	if err := n.world.Wait(ctx); err != nil {
		return err
	}
	// passing the world barrier means the active group is done
	n.state = Chaining
	return n.chain(ctx)
}
