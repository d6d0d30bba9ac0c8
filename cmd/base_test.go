package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-prefixsum/common/types"
	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/input"
	"github.com/spacemeshos/go-prefixsum/log"
)

func writeConfig(tb testing.TB, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "config.json")
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// configure parses args the way cobra does before RunE.
func configure(tb testing.TB, args ...string) (config.Config, error) {
	tb.Helper()
	conf := config.DefaultConfig()
	c := &cobra.Command{Use: "test"}
	path := AddFlags(c.Flags(), &conf)
	require.NoError(tb, c.ParseFlags(args))
	err := Configure(c, *path, &conf)
	return conf, err
}

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := configure(t)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), conf)
}

func TestLoadConfigPreset(t *testing.T) {
	conf, err := configure(t, "--preset", "mocknet")
	require.NoError(t, err)
	require.Equal(t, "mocknet", conf.Preset)
	require.Equal(t, config.TransportMocknet, conf.Transport)
	require.Equal(t, 12, conf.Scan.Size)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{
		"preset": "loopback",
		"main": {"transport": "inmem"},
		"scan": {"size": 3, "recv-timeout": "2s"},
		"input": {"mode": "list", "values": [4, -1, 7]}
	}`)
	conf, err := configure(t, "-c", path)
	require.NoError(t, err)
	require.Equal(t, path, conf.ConfigFile)
	require.Equal(t, "loopback", conf.Preset)
	require.Equal(t, config.TransportInmem, conf.Transport)
	require.Equal(t, 3, conf.Scan.Size)
	require.Equal(t, 2*time.Second, conf.Scan.RecvTimeout)
	require.Equal(t, input.ModeList, conf.Input.Mode)
	require.Equal(t, []int64{4, -1, 7}, conf.Input.Values)
	// untouched by the file, taken from the preset
	require.Equal(t, config.JSONLogEncoder, conf.LOGGING.Encoder)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `{
		"scan": {"size": 3},
		"input": {"mode": "list", "values": [1, 2, 3]}
	}`)
	conf, err := configure(t, "-c", path, "-n", "2", "--values", "5,6", "--level", "debug")
	require.NoError(t, err)
	require.Equal(t, 2, conf.Scan.Size)
	require.Equal(t, []int64{5, 6}, conf.Input.Values)
	require.Equal(t, input.ModeList, conf.Input.Mode)
	require.Equal(t, "debug", conf.LOGGING.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		content string
		args    []string
	}{
		{desc: "unknown key", content: `{"scan": {"ranks": 3}}`},
		{desc: "wrong type", content: `{"scan": {"size": "many"}}`},
		{desc: "unknown preset", content: `{"preset": "mainnet"}`},
		{desc: "unknown preset flag", content: `{}`, args: []string{"-p", "mainnet"}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			args := append([]string{"-c", writeConfig(t, tc.content)}, tc.args...)
			_, err := configure(t, args...)
			var fatal *log.FatalError
			require.ErrorAs(t, err, &fatal)
			require.Equal(t, "ERR_MALFORMED_CONFIG", fatal.Code)
		})
	}
}

func TestInt64List(t *testing.T) {
	var values []int64
	l := NewInt64List(&values)
	require.Equal(t, "int64List", l.Type())
	require.Equal(t, "", l.String())
	require.NoError(t, l.Set("1,-2"))
	require.NoError(t, l.Set("3, 4 ,5"))
	require.Equal(t, []int64{3, 4, 5}, values)
	require.Equal(t, "3,4,5", l.String())
	require.ErrorIs(t, l.Set("x"), types.ErrConfiguration)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.DefaultLoggingConfig(), "test")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger(config.LoggerConfig{Level: "loud"}, "test")
	require.ErrorIs(t, err, types.ErrConfiguration)
}
