package input

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-prefixsum/common/types"
)

func TestRankValues(t *testing.T) {
	values, err := Values(DefaultConfig(), 5)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, values)
}

func TestRandomValues(t *testing.T) {
	cfg := Config{Mode: ModeRandom, Seed: 42, MaxValue: 10}
	values, err := Values(cfg, 100)
	require.NoError(t, err)
	for _, v := range values {
		require.GreaterOrEqual(t, v, int64(-10))
		require.LessOrEqual(t, v, int64(10))
	}

	again, err := Values(cfg, 100)
	require.NoError(t, err)
	require.Equal(t, values, again)

	cfg.Seed = 43
	other, err := Values(cfg, 100)
	require.NoError(t, err)
	require.NotEqual(t, values, other)
}

func TestRandomZeroRange(t *testing.T) {
	values, err := Values(Config{Mode: ModeRandom, MaxValue: 0}, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 0}, values)
}

func TestListValues(t *testing.T) {
	cfg := Config{Mode: ModeList, Values: []int64{4, -2, 9}}
	values, err := Values(cfg, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{4, -2, 9}, values)

	values[0] = 100
	require.Equal(t, int64(4), cfg.Values[0])
}

func TestInvalidConfig(t *testing.T) {
	for _, tc := range []struct {
		desc string
		cfg  Config
		size int
	}{
		{desc: "zero size", cfg: DefaultConfig(), size: 0},
		{desc: "unknown mode", cfg: Config{Mode: "sequence"}, size: 2},
		{desc: "negative range", cfg: Config{Mode: ModeRandom, MaxValue: -1}, size: 2},
		{desc: "range overflow", cfg: Config{Mode: ModeRandom, MaxValue: MaxValueLimit + 1}, size: 2},
		{desc: "short list", cfg: Config{Mode: ModeList, Values: []int64{1}}, size: 2},
		{desc: "long list", cfg: Config{Mode: ModeList, Values: []int64{1, 2, 3}}, size: 2},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Values(tc.cfg, tc.size)
			require.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestParseList(t *testing.T) {
	values, err := ParseList(" 1, -2,3 ")
	require.NoError(t, err)
	require.Equal(t, []int64{1, -2, 3}, values)

	values, err = ParseList("")
	require.NoError(t, err)
	require.Empty(t, values)

	_, err = ParseList("1,two,3")
	require.ErrorIs(t, err, types.ErrConfiguration)
	require.ErrorContains(t, err, "value 1")
}

func TestModeFlag(t *testing.T) {
	var mode Mode
	require.NoError(t, mode.Set("random"))
	require.Equal(t, ModeRandom, mode)
	require.Equal(t, "random", mode.String())
	require.ErrorIs(t, mode.Set("gaussian"), types.ErrConfiguration)
	require.Equal(t, ModeRandom, mode)
}
