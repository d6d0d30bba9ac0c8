package types

import (
	"fmt"

	"github.com/spacemeshos/go-scale"
)

// scale has no signed compact encoding, values are stored as two's complement uint64.

func encodeInt64SliceWithLimit(enc *scale.Encoder, values []int64, limit uint32) (int, error) {
	if uint64(len(values)) > uint64(limit) {
		return 0, fmt.Errorf("slice length %d exceeds limit %d", len(values), limit)
	}
	total, err := scale.EncodeCompact32(enc, uint32(len(values)))
	if err != nil {
		return total, err
	}
	for _, v := range values {
		n, err := scale.EncodeCompact64(enc, uint64(v))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func decodeInt64SliceWithLimit(dec *scale.Decoder, limit uint32) ([]int64, int, error) {
	length, total, err := scale.DecodeCompact32(dec)
	if err != nil {
		return nil, total, err
	}
	if length > limit {
		return nil, total, fmt.Errorf("slice length %d exceeds limit %d", length, limit)
	}
	if length == 0 {
		return nil, total, nil
	}
	values := make([]int64, length)
	for i := range values {
		v, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return nil, total, err
		}
		total += n
		values[i] = int64(v)
	}
	return values, total, nil
}
