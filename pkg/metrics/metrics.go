package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PgErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gestionale",
		Subsystem: "pg",
		Name:      "pg_err_count",
	}, []string{"method"})
	PgDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gestionale",
		Subsystem: "pg",
		Name:      "pg_duration",
	}, []string{"method"})
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gestionale",
		Subsystem: "http",
		Name:      "requests_total",
	}, []string{"method", "code"})
)
