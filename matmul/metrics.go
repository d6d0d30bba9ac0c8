package matmul

import "github.com/spacemeshos/go-prefixsum/metrics"

const namespace = "matmul"

var (
	rows = metrics.NewCounter(
		"rows",
		namespace,
		"number of product rows",
		[]string{"stage"},
	)
	rowsComputed = rows.WithLabelValues("computed")
	rowsGathered = rows.WithLabelValues("gathered")
)
