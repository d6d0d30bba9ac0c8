package types

import "errors"

var (
	// ErrConfiguration is returned for invalid node counts or malformed per-node input.
	// It is raised before any rank enters the protocol.
	ErrConfiguration = errors.New("configuration error")
	// ErrCommunication is returned when a send or receive can't complete.
	ErrCommunication = errors.New("communication error")
	// ErrProtocolViolation is returned when a message doesn't match what the receiver expects.
	ErrProtocolViolation = errors.New("protocol violation")
)
