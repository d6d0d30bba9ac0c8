// Package matmul multiplies square integer matrices across ranks. Rows are
// split statically, every rank computes its block and rank 0 gathers the
// product.
package matmul

import (
	"fmt"
	"io"
	"strings"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

// Matrix is an N x N matrix stored row-major.
type Matrix struct {
	N    int
	Data []int64
}

// New allocates zero matrix.
func New(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: matrix size must be positive, got %d", types.ErrConfiguration, n)
	}
	return &Matrix{N: n, Data: make([]int64, n*n)}, nil
}

// Fill creates matrix with values in [0, maxValue] drawn from a splitmix64
// sequence. Same seed produces the same matrix. Negative maxValue is treated as 0.
func Fill(n int, seed uint64, maxValue int) (*Matrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	maxValue = max(maxValue, 0)
	state := seed
	rng := uint64(maxValue) + 1
	for i := range m.Data {
		m.Data[i] = int64(splitmix64(&state) % rng)
	}
	return m, nil
}

func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (m *Matrix) Get(i, j int) int64 {
	return m.Data[i*m.N+j]
}

func (m *Matrix) Set(i, j int, v int64) {
	m.Data[i*m.N+j] = v
}

// Row returns row i. The slice aliases matrix data.
func (m *Matrix) Row(i int) []int64 {
	return m.Data[i*m.N : (i+1)*m.N]
}

// Checksum is the sum of all entries.
func (m *Matrix) Checksum() int64 {
	var sum int64
	for _, v := range m.Data {
		sum += v
	}
	return sum
}

// Print writes the matrix preceded by "name =" when name is not empty.
func (m *Matrix) Print(w io.Writer, name string) error {
	var sb strings.Builder
	if name != "" {
		fmt.Fprintf(&sb, "%s =\n", name)
	}
	for i := range m.N {
		for j, v := range m.Row(i) {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%4d", v)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RowBlock returns rows [lo, hi) owned by rank when n rows are split across
// size ranks. The first n%size ranks get one extra row.
func RowBlock(n, size int, rank types.Rank) (lo, hi int) {
	r := int(rank)
	base, rem := n/size, n%size
	lo = r*base + min(r, rem)
	hi = lo + base
	if r < rem {
		hi++
	}
	return lo, hi
}
