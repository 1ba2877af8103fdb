// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks pipeline operation outcomes by operation and result.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytaudio_requests_total",
		Help: "Total pipeline operations by operation and result",
	}, []string{"operation", "result"})

	// ExtractionDuration tracks the wall time of audio materialization.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ytaudio_extraction_duration_seconds",
		Help:    "Time taken to materialize audio (download + transcode)",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
	})

	// ExtractionFallbacks counts materializations that fell back to a stream
	// descriptor instead of a file artifact.
	ExtractionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytaudio_extraction_fallbacks_total",
		Help: "Materializations that fell back to a stream descriptor",
	})

	// ProxyBytes counts bytes relayed to clients by the stream proxy.
	ProxyBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytaudio_proxy_bytes_total",
		Help: "Bytes relayed to clients by the stream proxy",
	})

	// ProxyUpstreamErrors counts mid-stream upstream read failures.
	ProxyUpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytaudio_proxy_upstream_errors_total",
		Help: "Upstream read failures after proxy headers were committed",
	})
)

// IncRequest records one pipeline operation outcome.
func IncRequest(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	RequestsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveExtraction records the duration of one materialization.
func ObserveExtraction(d time.Duration) {
	ExtractionDuration.Observe(d.Seconds())
}
