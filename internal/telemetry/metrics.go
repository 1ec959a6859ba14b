package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyhub_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "endpoint", "status"})

	// HTTPRequestDuration observes request latency per route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storyhub_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	// HTTPActiveRequests tracks in-flight requests.
	HTTPActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storyhub_http_active_requests",
		Help: "Requests currently being served.",
	})

	// DatabaseQueryDuration observes gorm operation latency per table.
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storyhub_db_query_duration_seconds",
		Help:    "Database operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DatabaseErrorsTotal counts gorm operation errors.
	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storyhub_db_errors_total",
		Help: "Database operation errors.",
	}, []string{"operation", "kind"})

	// PageViewsTotal counts tracked public page views.
	PageViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storyhub_page_views_total",
		Help: "Public page views recorded by the analytics tracker.",
	})

	// MigrationsApplied counts migration units applied since process start.
	MigrationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storyhub_migrations_applied_total",
		Help: "Schema migration units applied.",
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
