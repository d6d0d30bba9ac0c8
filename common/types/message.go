package types

import (
	"fmt"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// MaxDataLength bounds the vector payload of a single message.
const MaxDataLength = 1 << 16

// Kind is the protocol stage a message belongs to.
type Kind uint8

// NOTE changes in order is a breaking change for the wire format.
const (
	KindExchange Kind = iota
	KindHandoff
	KindChain
	KindBarrier
	KindGather
)

var kindNames = [...]string{"exchange", "handoff", "chain", "barrier", "gather"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

//go:generate scalegen

// Tag addresses a message within a run. Two messages from the same sender
// to the same receiver never share a tag.
type Tag struct {
	Kind  Kind
	Group GroupID
	Round uint32
	Step  uint32
}

func (t Tag) String() string {
	return fmt.Sprintf("%s/%s/%d/%d", t.Kind, t.Group, t.Round, t.Step)
}

func (t Tag) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("kind", t.Kind.String())
	encoder.AddString("group", t.Group.String())
	encoder.AddUint32("round", t.Round)
	encoder.AddUint32("step", t.Step)
	return nil
}

// Message is a single point-to-point payload.
type Message struct {
	From  Rank
	To    Rank
	Tag   Tag
	Value int64
	// Data is only set for gather messages.
	Data []int64 `scale:"max=65536"`
}

// Validate checks invariants that don't depend on the receiver state.
func (m *Message) Validate() error {
	if m.From == m.To {
		return fmt.Errorf("%w: message %s sent to self (%d)", ErrProtocolViolation, m.Tag, m.From)
	}
	if len(m.Data) > MaxDataLength {
		return fmt.Errorf("%w: data length %d exceeds %d", ErrProtocolViolation, len(m.Data), MaxDataLength)
	}
	return nil
}

func (m *Message) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("from", m.From.Uint32())
	encoder.AddUint32("to", m.To.Uint32())
	encoder.AddObject("tag", m.Tag)
	encoder.AddInt64("value", m.Value)
	if len(m.Data) > 0 {
		encoder.AddInt("data", len(m.Data))
	}
	return nil
}
