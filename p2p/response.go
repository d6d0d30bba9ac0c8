package p2p

import (
	"errors"
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

const maxErrorLength = 1024

// Code classifies the outcome of a delivery on the receiving host.
type Code uint8

const (
	CodeOK Code = iota
	CodeViolation
	CodeCommunication
)

// Response acknowledges a single message.
type Response struct {
	Code  Code
	Error string `scale:"max=1024"`
}

func newResponse(err error) *Response {
	switch {
	case err == nil:
		return &Response{}
	case errors.Is(err, types.ErrProtocolViolation):
		return &Response{Code: CodeViolation, Error: truncate(err.Error())}
	default:
		return &Response{Code: CodeCommunication, Error: truncate(err.Error())}
	}
}

// Err converts the response back into the error taxonomy of the sender.
func (r *Response) Err() error {
	switch r.Code {
	case CodeOK:
		return nil
	case CodeViolation:
		return fmt.Errorf("%w: peer rejected message: %s", types.ErrProtocolViolation, r.Error)
	default:
		return fmt.Errorf("%w: peer failed to accept message: %s", types.ErrCommunication, r.Error)
	}
}

func truncate(msg string) string {
	if len(msg) > maxErrorLength {
		return msg[:maxErrorLength]
	}
	return msg
}

func (r *Response) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact8(enc, uint8(r.Code))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStringWithLimit(enc, r.Error, maxErrorLength)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *Response) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact8(dec)
		if err != nil {
			return total, err
		}
		total += n
		r.Code = Code(field)
	}
	{
		field, n, err := scale.DecodeStringWithLimit(dec, maxErrorLength)
		if err != nil {
			return total, err
		}
		total += n
		r.Error = field
	}
	return total, nil
}
