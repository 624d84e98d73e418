// Package metrics provides Prometheus instrumentation for tradecalc.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Calculations counts calculator invocations by operation
	// (calculate, curve, export).
	Calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradecalc_calculations_total",
		Help: "Total calculator invocations",
	}, []string{"op"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradecalc_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradecalc_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})

	// FeedConnections tracks open price feed connections.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradecalc_feed_connections",
		Help: "Number of open price feed connections",
	})

	FeedUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradecalc_feed_updates_total",
		Help: "Price updates delivered by the feed",
	}, []string{"symbol"})

	// FeedDropped counts updates discarded because the consumer was slow.
	FeedDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradecalc_feed_dropped_total",
		Help: "Price updates dropped on a full channel",
	}, []string{"symbol"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency. The chi route pattern is
// used as the path label to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
