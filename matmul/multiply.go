package matmul

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/spacemeshos/go-prefixsum/comm"
	"github.com/spacemeshos/go-prefixsum/common/types"
)

// exactLimit is the largest magnitude float64 represents without gaps.
const exactLimit = 1 << 53

// CheckExact fails when a product entry of n x n matrices with entries up to
// maxValue could exceed the exactly representable float64 range.
func CheckExact(n int, maxValue int64) error {
	if maxValue == 0 {
		return nil
	}
	if float64(n)*float64(maxValue)*float64(maxValue) >= exactLimit {
		return fmt.Errorf("%w: %d x %d product with entries up to %d exceeds exact range",
			types.ErrConfiguration, n, n, maxValue)
	}
	return nil
}

func maxAbs(m *Matrix) int64 {
	var top int64
	for _, v := range m.Data {
		if v < 0 {
			v = -v
		}
		top = max(top, v)
	}
	return top
}

func toDense(m *Matrix) *mat.Dense {
	data := make([]float64, len(m.Data))
	for i, v := range m.Data {
		data[i] = float64(v)
	}
	return mat.NewDense(m.N, m.N, data)
}

// Block computes rows [lo, hi) of a*b. Rows are computed concurrently.
func Block(ctx context.Context, a, b *Matrix, lo, hi int) ([][]int64, error) {
	if a.N != b.N {
		return nil, fmt.Errorf("%w: %d x %d times %d x %d", types.ErrConfiguration, a.N, a.N, b.N, b.N)
	}
	if err := CheckExact(a.N, max(maxAbs(a), maxAbs(b))); err != nil {
		return nil, err
	}
	bt := toDense(b).T()
	ad := toDense(a)
	out := make([][]int64, hi-lo)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := lo; i < hi; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var row mat.VecDense
			row.MulVec(bt, ad.RowView(i))
			values := make([]int64, a.N)
			for j := range values {
				values[j] = int64(math.Round(row.AtVec(j)))
			}
			out[i-lo] = values
			rowsComputed.Inc()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func gatherTag(row int) types.Tag {
	return types.Tag{Kind: types.KindGather, Group: types.GroupWorld, Round: uint32(row)}
}

// Multiply computes the block of a*b owned by the rank of c and gathers all
// blocks on rank 0. Rank 0 returns the product, every other rank returns nil.
func Multiply(ctx context.Context, c *comm.Context, a, b *Matrix) (*Matrix, error) {
	n := a.N
	if n > types.MaxDataLength {
		return nil, fmt.Errorf("%w: row of %d entries exceeds message limit %d",
			types.ErrConfiguration, n, types.MaxDataLength)
	}
	lo, hi := RowBlock(n, c.Size(), c.Rank())
	block, err := Block(ctx, a, b, lo, hi)
	if err != nil {
		return nil, err
	}
	c.Logger().Debug("block computed", zap.Int("lo", lo), zap.Int("hi", hi))

	if c.Rank() != 0 {
		for i, row := range block {
			if err := c.SendData(ctx, 0, gatherTag(lo+i), row); err != nil {
				return nil, fmt.Errorf("gather row %d: %w", lo+i, err)
			}
		}
		return nil, nil
	}

	product, err := New(n)
	if err != nil {
		return nil, err
	}
	for i, row := range block {
		copy(product.Row(lo+i), row)
	}
	for rank := 1; rank < c.Size(); rank++ {
		rlo, rhi := RowBlock(n, c.Size(), types.Rank(rank))
		for i := rlo; i < rhi; i++ {
			msg, err := c.Recv(ctx, types.Rank(rank), gatherTag(i))
			if err != nil {
				return nil, fmt.Errorf("gather row %d: %w", i, err)
			}
			if len(msg.Data) != n {
				return nil, fmt.Errorf("%w: row %d from %d has %d entries, expected %d",
					types.ErrProtocolViolation, i, rank, len(msg.Data), n)
			}
			copy(product.Row(i), msg.Data)
			rowsGathered.Inc()
		}
	}
	return product, nil
}
