package p2p

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-prefixsum/metrics"
)

const namespace = "p2p"

var (
	streams = metrics.NewCounter(
		"streams",
		namespace,
		"inbound message streams by outcome",
		[]string{"state"},
	)
	acceptedStreams = streams.WithLabelValues("accepted")
	rejectedStreams = streams.WithLabelValues("rejected")
	failedStreams   = streams.WithLabelValues("failed")

	sendLatency = metrics.NewHistogramWithBuckets(
		"send_latency_seconds",
		namespace,
		"latency from opening a stream until the ack is read",
		[]string{"result"},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	)
	sendSucceeded = sendLatency.WithLabelValues("ok")
	sendFailed    = sendLatency.WithLabelValues("failed")
)
