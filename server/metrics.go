package server

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
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradedash_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradedash_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "route"})

	// ReloadsTotal counts snapshot reloads by trigger and result.
	ReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradedash_reloads_total",
		Help: "Trade snapshot reloads",
	}, []string{"trigger", "result"})

	// LoadedTrades is the number of trades in the served snapshot.
	LoadedTrades = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradedash_loaded_trades",
		Help: "Trades in the current snapshot",
	})

	// ReportFailures counts requests that could not build a report, by cause.
	ReportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradedash_report_failures_total",
		Help: "Requests halted by a load, schema, or empty-data failure",
	}, []string{"cause"})
)

// metricsHandler returns the Prometheus metrics HTTP handler.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}

// instrument records request metrics labeled with the chi route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration)
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
