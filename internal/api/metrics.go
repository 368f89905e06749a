package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storefront_api_requests_total", Help: "Total outbound API requests"},
		[]string{"method", "endpoint", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "storefront_api_request_duration_seconds", Help: "Outbound API request duration", Buckets: prometheus.DefBuckets},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal, apiRequestDuration)
}

// observe records one completed outbound request. status is 0 when no
// response was received at all.
func observe(method, endpoint string, status int, started time.Time) {
	apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(started).Seconds())
}
