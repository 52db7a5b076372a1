// internal/bridge/metrics.go
package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopbridge_dispatch_total",
		Help: "Sync dispatches by intent and outcome.",
	}, []string{"intent", "outcome"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopbridge_job_duration_seconds",
		Help:    "Latency of external job function invocations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})
)
