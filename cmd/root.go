package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/config/presets"
	"github.com/spacemeshos/go-prefixsum/input"
)

// AddFlags adds the flags of every command to flagSet. Flags write into cfg directly.
// The returned pointer holds the config file path once flags are parsed.
func AddFlags(flagSet *pflag.FlagSet, cfg *config.Config) (configPath *string) {
	flagSet.StringVarP(&cfg.Preset, "preset", "p", cfg.Preset,
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))

	/** ======================== BaseConfig Flags ========================== **/
	configPath = flagSet.StringP("config", "c", "", "load configuration from file")
	flagSet.StringVar(&cfg.Transport, "transport", cfg.Transport,
		fmt.Sprintf("transport between ranks. options [%s %s %s]",
			config.TransportInmem, config.TransportMocknet, config.TransportLibp2p))
	flagSet.StringVarP(&cfg.Output, "output", "o", cfg.Output,
		"write a JSON report to this path")
	flagSet.BoolVar(&cfg.CollectMetrics, "metrics", cfg.CollectMetrics,
		"serve prometheus metrics while running")
	flagSet.StringVar(&cfg.MetricsListen, "metrics-listen", cfg.MetricsListen,
		"address of the metrics server")
	flagSet.StringVar(&cfg.MetricsPush, "metrics-push", cfg.MetricsPush,
		"push metrics to this pushgateway url after the run")

	/** ======================== Logging Flags ========================== **/
	flagSet.StringVar(&cfg.LOGGING.Encoder, "log-encoder", cfg.LOGGING.Encoder,
		"log as JSON instead of plain text")
	flagSet.StringVar(&cfg.LOGGING.Level, "level", cfg.LOGGING.Level,
		"logging level")

	/** ======================== Scan Flags ========================== **/
	flagSet.IntVarP(&cfg.Scan.Size, "size", "n", cfg.Scan.Size,
		"number of ranks")
	flagSet.DurationVar(&cfg.Scan.RecvTimeout, "recv-timeout", cfg.Scan.RecvTimeout,
		"fail a rank when a single receive takes longer. zero waits forever")

	/** ======================== Input Flags ========================== **/
	flagSet.Var(&cfg.Input.Mode, "input",
		fmt.Sprintf("how rank values are produced. options [%s %s %s]",
			input.ModeRank, input.ModeRandom, input.ModeList))
	flagSet.Uint64Var(&cfg.Input.Seed, "seed", cfg.Input.Seed,
		"seed of random values")
	flagSet.Int64Var(&cfg.Input.MaxValue, "max-value", cfg.Input.MaxValue,
		"random values are drawn from [-max-value, max-value]")
	flagSet.Var(NewInt64List(&cfg.Input.Values), "values",
		"comma separated values, one per rank, used with --input=list")

	/** ======================== P2P Flags ========================== **/
	flagSet.StringVar(&cfg.P2P.Listen, "listen", cfg.P2P.Listen,
		"multiaddr libp2p hosts listen on")
	flagSet.DurationVar(&cfg.P2P.StreamTimeout, "stream-timeout", cfg.P2P.StreamTimeout,
		"timeout of a single message exchange on a libp2p stream")
	flagSet.IntVar(&cfg.P2P.RequestLimit, "request-limit", cfg.P2P.RequestLimit,
		"largest encoded message accepted by a host")

	/** ======================== Matmul Flags ========================== **/
	flagSet.IntVar(&cfg.Matmul.N, "matrix-size", cfg.Matmul.N,
		"dimension of the square matrices")
	flagSet.Uint64Var(&cfg.Matmul.SeedA, "seed-a", cfg.Matmul.SeedA,
		"seed of matrix A")
	flagSet.Uint64Var(&cfg.Matmul.SeedB, "seed-b", cfg.Matmul.SeedB,
		"seed of matrix B")
	flagSet.IntVar(&cfg.Matmul.MaxValue, "matrix-max-value", cfg.Matmul.MaxValue,
		"entries of A and B are drawn from [0, matrix-max-value]")
	flagSet.BoolVar(&cfg.Matmul.Print, "print", cfg.Matmul.Print,
		"print A, B and their product")

	return configPath
}
