package types

import (
	"strconv"
)

// Rank is a participant identifier, unique and stable for a single run.
type Rank uint32

func (r Rank) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

// Uint32 returns rank as uint32.
func (r Rank) Uint32() uint32 {
	return uint32(r)
}

// Color is a partition a rank is assigned to for the duration of a run.
type Color uint8

const (
	// Active ranks run the recursive-doubling exchange.
	Active Color = iota
	// Overflow ranks are chained serially after the active group.
	Overflow
)

func (c Color) String() string {
	switch c {
	case Active:
		return "active"
	case Overflow:
		return "overflow"
	}
	return "color(" + strconv.Itoa(int(c)) + ")"
}

// GroupID identifies a set of ranks that synchronize on a barrier.
type GroupID uint8

const (
	// GroupActive is the power-of-two prefix of ranks.
	GroupActive GroupID = iota
	// GroupWorld contains every rank of the run.
	GroupWorld
)

func (g GroupID) String() string {
	switch g {
	case GroupActive:
		return "active"
	case GroupWorld:
		return "world"
	}
	return "group(" + strconv.Itoa(int(g)) + ")"
}
