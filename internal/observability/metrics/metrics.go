package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softphone_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "softphone_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	remoteCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softphone_ringotel_calls_total",
		Help: "Ringotel API calls by method and result",
	}, []string{"method", "result"})

	remoteCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "softphone_ringotel_call_duration_seconds",
		Help:    "Duration of Ringotel API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softphone_operations_total",
		Help: "Dispatched provisioning operations by method and outcome",
	}, []string{"method", "outcome"})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "softphone_events_published_total",
		Help: "Provisioning events published by subject and result",
	}, []string{"subject", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRemoteCall records one Ringotel API call; result is "ok", "fault" or "error".
func ObserveRemoteCall(method, result string, duration time.Duration) {
	remoteCallsTotal.WithLabelValues(method, result).Inc()
	remoteCallDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveOperation counts a dispatched operation by outcome ("ok", "empty", "invalid", "remote_fault", "error").
func ObserveOperation(method, outcome string) {
	operationsTotal.WithLabelValues(method, outcome).Inc()
}

func ObserveEvent(subject, result string) {
	eventsPublished.WithLabelValues(subject, result).Inc()
}
