package scan

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-prefixsum/metrics"
)

const namespace = "scan"

var (
	runs = metrics.NewCounter(
		"runs",
		namespace,
		"number of scan runs by outcome",
		[]string{"outcome"},
	)
	runsCompleted = runs.WithLabelValues("completed")
	runsFailed    = runs.WithLabelValues("failed")

	runErrors = metrics.NewCounter(
		"errors",
		namespace,
		"number of failed runs by error kind",
		[]string{"kind"},
	)

	steps = metrics.NewCounter(
		"steps",
		namespace,
		"number of protocol steps completed by all ranks",
		[]string{"step"},
	)
	roundsCompleted = steps.WithLabelValues("round")
	handoffs        = steps.WithLabelValues("handoff")
	chainLinks      = steps.WithLabelValues("chain")

	runDuration = metrics.NewHistogramWithBuckets(
		"run_seconds",
		namespace,
		"duration of a run from start until every rank is done",
		[]string{},
		prometheus.ExponentialBuckets(0.0001, 2, 20),
	).WithLabelValues()
)
