package barrier

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-prefixsum/metrics"
)

const namespace = "barrier"

var waitDuration = metrics.NewHistogramWithBuckets(
	"wait_seconds",
	namespace,
	"time spent waiting for the group to arrive",
	[]string{"group"},
	prometheus.ExponentialBuckets(0.0001, 2, 16),
)
