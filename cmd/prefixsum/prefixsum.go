// Package prefixsum is the command line entry point: scan and matmul over a chosen transport.
package prefixsum

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/cmd"
	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/log"
)

// GetCommand returns the root command with scan and matmul subcommands.
func GetCommand() *cobra.Command {
	conf := config.DefaultConfig()
	var (
		configPath *string
		// run identifies a single invocation in logs and pushed metrics.
		run uuid.UUID
	)
	c := &cobra.Command{
		Use:   "prefixsum",
		Short: "distributed prefix sum over a group of ranks",
	}
	configPath = cmd.AddFlags(c.PersistentFlags(), &conf)

	// prepare loads configuration and the logger for a subcommand.
	prepare := func(c *cobra.Command, validate func() error) (*zap.Logger, error) {
		if err := cmd.Configure(c, *configPath, &conf); err != nil {
			return nil, err
		}
		if err := validate(); err != nil {
			return nil, log.ErrBadFlags(err)
		}
		logger, err := cmd.NewLogger(conf.LOGGING, "prefixsum")
		if err != nil {
			return nil, err
		}
		// Don't print usage on error from this point forward
		c.SilenceUsage = true
		run = uuid.New()
		logger = logger.With(zap.Stringer("run", run))
		logger.Info("configuration loaded", zap.Inline(&conf))
		return logger, nil
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "compute inclusive prefix sum of one value per rank",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := prepare(c, conf.Validate)
			if err != nil {
				return err
			}
			defer logger.Sync()
			// os.Interrupt for all systems, especially windows, syscall.SIGTERM is mainly for docker.
			ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return withMetrics(ctx, &conf, logger, run, "scan", func(ctx context.Context) error {
				return runScan(ctx, &conf, logger, c.OutOrStdout())
			})
		},
	}
	matmulCmd := &cobra.Command{
		Use:   "matmul",
		Short: "multiply two seeded matrices with rows split across ranks",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := prepare(c, func() error {
				if err := conf.Validate(); err != nil {
					return err
				}
				return conf.Matmul.Validate()
			})
			if err != nil {
				return err
			}
			defer logger.Sync()
			ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return withMetrics(ctx, &conf, logger, run, "matmul", func(ctx context.Context) error {
				return runMatmul(ctx, &conf, logger, c.OutOrStdout())
			})
		},
	}
	// versionCmd returns the current version of prefixsum.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintln(c.OutOrStdout(), cmd.Version)
		},
	}
	c.AddCommand(scanCmd, matmulCmd, versionCmd)
	return c
}
