package scan

import (
	"errors"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

var (
	ErrConfiguration     = types.ErrConfiguration
	ErrCommunication     = types.ErrCommunication
	ErrProtocolViolation = types.ErrProtocolViolation

	// ErrNotDone is returned when the result of a node is read before it finished.
	ErrNotDone = errors.New("node didn't finish")
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrProtocolViolation):
		return "protocol"
	case errors.Is(err, ErrCommunication):
		return "communication"
	default:
		return "other"
	}
}
