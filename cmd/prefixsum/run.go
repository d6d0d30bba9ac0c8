package prefixsum

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-prefixsum/config"
	"github.com/spacemeshos/go-prefixsum/input"
	"github.com/spacemeshos/go-prefixsum/log"
	"github.com/spacemeshos/go-prefixsum/matmul"
	"github.com/spacemeshos/go-prefixsum/metrics"
	"github.com/spacemeshos/go-prefixsum/scan"
)

func runScan(ctx context.Context, conf *config.Config, logger *zap.Logger, out io.Writer) error {
	values, err := input.Values(conf.Input, conf.Scan.Size)
	if err != nil {
		return log.ErrBadInput(err)
	}
	world, err := newWorld(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeWorld(world, logger)

	results, err := scan.Run(ctx, world, values, scan.WithLogger(logger.Named("scan")))
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if err := results.WriteTable(out); err != nil {
		return err
	}
	fmt.Fprintf(out, "digest %s\n", results.Digest())

	if conf.Output == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := results.WriteJSON(&buf); err != nil {
		return err
	}
	return writeOutput(conf.Output, &buf, logger)
}

func runMatmul(ctx context.Context, conf *config.Config, logger *zap.Logger, out io.Writer) error {
	world, err := newWorld(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeWorld(world, logger)

	result, err := matmul.Run(ctx, world, conf.Matmul, logger.Named("matmul"))
	if err != nil {
		return fmt.Errorf("matmul: %w", err)
	}
	fmt.Fprintf(out, "checksum A %d\nchecksum B %d\nchecksum C %d\n",
		result.A.Checksum(), result.B.Checksum(), result.C.Checksum())

	var buf bytes.Buffer
	for _, m := range []struct {
		name   string
		matrix *matmul.Matrix
	}{{"A", result.A}, {"B", result.B}, {"C", result.C}} {
		if err := m.matrix.Print(&buf, m.name); err != nil {
			return err
		}
	}
	if conf.Matmul.Print {
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	if conf.Output == "" {
		return nil
	}
	return writeOutput(conf.Output, &buf, logger)
}

// writeOutput replaces path with the content of r, readers never see a partial file.
func writeOutput(path string, r io.Reader, logger *zap.Logger) error {
	if err := atomic.WriteFile(path, r); err != nil {
		return log.ErrWriteOutput(path, err)
	}
	logger.Info("output written", zap.String("path", path))
	return nil
}

// withMetrics serves metrics for the duration of fn and pushes them once fn returns.
func withMetrics(ctx context.Context, conf *config.Config, logger *zap.Logger, run uuid.UUID, command string,
	fn func(context.Context) error,
) error {
	if conf.CollectMetrics {
		srv := metrics.NewServer(conf.MetricsListen, logger.Named("metrics"))
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Warn("failed to stop metrics server", zap.Error(err))
			}
		}()
	}
	err := fn(ctx)
	if conf.MetricsPush != "" {
		grouping := map[string]string{
			"command":   command,
			"transport": conf.Transport,
			"run":       run.String(),
		}
		if err := metrics.PushMetrics(conf.MetricsPush, "prefixsum", grouping); err != nil {
			logger.Warn("failed to push metrics", zap.Error(err))
		}
	}
	return err
}
