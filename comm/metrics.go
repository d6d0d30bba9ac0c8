package comm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-prefixsum/metrics"
)

const namespace = "comm"

var (
	sentMessages = metrics.NewCounter(
		"sent_messages",
		namespace,
		"number of sent messages",
		[]string{"kind"},
	)
	receivedMessages = metrics.NewCounter(
		"received_messages",
		namespace,
		"number of received messages",
		[]string{"kind"},
	)
	failures = metrics.NewCounter(
		"failures",
		namespace,
		"number of failed sends and receives",
		[]string{"op"},
	)
	sendFailures = failures.WithLabelValues("send")
	recvFailures = failures.WithLabelValues("recv")
	recvTimeouts = failures.WithLabelValues("timeout")

	runningRanks = metrics.NewGauge(
		"running_ranks",
		namespace,
		"number of ranks currently executing a run",
		[]string{},
	).WithLabelValues()

	recvWait = metrics.NewHistogramWithBuckets(
		"recv_wait_seconds",
		namespace,
		"time spent blocked in receive",
		[]string{"kind"},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	)
)
