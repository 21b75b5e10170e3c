package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsEnriched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_enriched_total",
			Help: "Total number of lead enrichment attempts",
		},
		[]string{"status"},
	)

	bulkActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_bulk_actions_total",
			Help: "Total number of bulk actions executed",
		},
		[]string{"action", "status"},
	)

	changeEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_change_events_published_total",
			Help: "Total number of realtime change events published",
		},
		[]string{"event"},
	)

	workspacesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workspaces_created_total",
			Help: "Total number of workspaces created via onboarding",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordEnrichment(status string) {
	leadsEnriched.WithLabelValues(status).Inc()
}

func RecordBulkAction(action, status string) {
	bulkActions.WithLabelValues(action, status).Inc()
}

func RecordChangeEvent(event string) {
	changeEventsPublished.WithLabelValues(event).Inc()
}

func RecordWorkspaceCreated() {
	workspacesCreated.Inc()
}
