// Package mailbox stores messages addressed to a single rank until they are received.
//
// Every message is addressed by its sender and tag. A slot accepts exactly one
// delivery and exactly one receive, anything else is a protocol violation.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// ErrClosed is returned for receives and deliveries after the mailbox was closed.
var ErrClosed = errors.New("mailbox closed")

type key struct {
	from types.Rank
	tag  types.Tag
}

type slot struct {
	msg       types.Message
	ready     chan struct{}
	delivered bool
	taken     bool
}

// Mailbox is safe for concurrent use by a single receiver and many senders.
type Mailbox struct {
	owner types.Rank

	mu     sync.Mutex
	slots  map[key]*slot
	done   chan struct{}
	reason error
}

// New creates mailbox for owner.
func New(owner types.Rank) *Mailbox {
	return &Mailbox{
		owner: owner,
		slots: map[key]*slot{},
		done:  make(chan struct{}),
	}
}

// Owner returns the rank that receives from this mailbox.
func (m *Mailbox) Owner() types.Rank {
	return m.owner
}

func (m *Mailbox) get(k key) *slot {
	s, exist := m.slots[k]
	if !exist {
		s = &slot{ready: make(chan struct{})}
		m.slots[k] = s
	}
	return s
}

func (m *Mailbox) closedErr() error {
	if m.reason != nil {
		return fmt.Errorf("%w: %w: %w", types.ErrCommunication, ErrClosed, m.reason)
	}
	return fmt.Errorf("%w: %w", types.ErrCommunication, ErrClosed)
}

// Deliver stores msg. It never blocks.
func (m *Mailbox) Deliver(msg types.Message) error {
	if msg.To != m.owner {
		return fmt.Errorf("%w: message %s for %d delivered to %d",
			types.ErrProtocolViolation, msg.Tag, msg.To, m.owner)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.done:
		return m.closedErr()
	default:
	}
	s := m.get(key{from: msg.From, tag: msg.Tag})
	if s.delivered {
		return fmt.Errorf("%w: duplicate message %s from %d", types.ErrProtocolViolation, msg.Tag, msg.From)
	}
	s.msg = msg
	s.delivered = true
	close(s.ready)
	return nil
}

// Receive blocks until a message from sender with tag is delivered, the mailbox is
// closed or ctx is done.
func (m *Mailbox) Receive(ctx context.Context, from types.Rank, tag types.Tag) (types.Message, error) {
	m.mu.Lock()
	s := m.get(key{from: from, tag: tag})
	if s.taken {
		m.mu.Unlock()
		return types.Message{}, fmt.Errorf("%w: message %s from %d received twice",
			types.ErrProtocolViolation, tag, from)
	}
	s.taken = true
	m.mu.Unlock()

	select {
	case <-s.ready:
		return s.msg, nil
	default:
	}
	select {
	case <-s.ready:
		return s.msg, nil
	case <-m.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		return types.Message{}, m.closedErr()
	case <-ctx.Done():
		return types.Message{}, ctx.Err()
	}
}

// Pending returns the number of delivered messages that were not received yet.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := 0
	for _, s := range m.slots {
		if s.delivered && !s.taken {
			pending++
		}
	}
	return pending
}

// Close fails all pending and future receives. The first reason is kept.
func (m *Mailbox) Close(reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.done:
		return
	default:
	}
	m.reason = reason
	close(m.done)
}
