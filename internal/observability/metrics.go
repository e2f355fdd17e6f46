// Package observability exposes Prometheus metrics for outbound requests.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Outbound backend requests partitioned by service and outcome.",
	}, []string{"service", "outcome"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitcoach",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound backend requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service"})
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration)
}

// ObserveRequest records one completed outbound call.
func ObserveRequest(service, outcome string, elapsed time.Duration) {
	requestCounter.WithLabelValues(service, outcome).Inc()
	requestDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}
