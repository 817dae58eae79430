package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
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

	pipelineConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_pipeline_conversions_total",
			Help: "Total number of lead and deal conversions",
		},
		[]string{"from"},
	)

	dealStageChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_deal_stage_changes_total",
			Help: "Total number of deal stage changes by target stage",
		},
		[]string{"stage"},
	)

	focusRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_focus_quota_rejections_total",
			Help: "Total number of focus marks rejected by the daily quota",
		},
	)

	focusRolledOver = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_focus_rolled_over_total",
			Help: "Total number of stale focus flags cleared",
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

// Metrics records request counts and latency. The path label is the chi
// route pattern so ids do not blow up cardinality.
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
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordConversion(from string) {
	pipelineConversions.WithLabelValues(from).Inc()
}

func RecordStageChange(stage string) {
	dealStageChanges.WithLabelValues(stage).Inc()
}

func RecordFocusRejected() {
	focusRejected.Inc()
}

func RecordFocusRollover(n int) {
	if n > 0 {
		focusRolledOver.Add(float64(n))
	}
}
