package scan

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/zeebo/blake3"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Result is the output of a single rank.
type Result struct {
	Rank   types.Rank `json:"rank"`
	Value  int64      `json:"value"`
	Prefix int64      `json:"prefix"`
}

func (r *Result) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("rank", r.Rank.Uint32())
	encoder.AddInt64("value", r.Value)
	encoder.AddInt64("prefix", r.Prefix)
	return nil
}

// Results of a run ordered by rank.
type Results []Result

// Prefixes returns prefix of every rank.
func (rs Results) Prefixes() []int64 {
	prefixes := make([]int64, len(rs))
	for i := range rs {
		prefixes[i] = rs[i].Prefix
	}
	return prefixes
}

// Digest is a fingerprint of results.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ShortString returns the first 5 bytes of the digest in hex.
func (d Digest) ShortString() string {
	return hex.EncodeToString(d[:5])
}

// Digest hashes (rank, value, prefix) of every result with blake3.
func (rs Results) Digest() Digest {
	hasher := blake3.New()
	buf := make([]byte, 0, 20)
	for _, r := range rs {
		buf = binary.LittleEndian.AppendUint32(buf[:0], r.Rank.Uint32())
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Value))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Prefix))
		hasher.Write(buf)
	}
	var d Digest
	hasher.Sum(d[:0])
	return d
}

type report struct {
	Size    int      `json:"size"`
	Digest  string   `json:"digest"`
	Results []Result `json:"results"`
}

// WriteJSON writes results and their digest as an indented JSON document.
func (rs Results) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report{Size: len(rs), Digest: rs.Digest().String(), Results: rs}); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// WriteTable writes one aligned "rank value prefix" row per result.
func (rs Results) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tvalue\tprefix\t")
	for _, r := range rs {
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", r.Rank, r.Value, r.Prefix)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
