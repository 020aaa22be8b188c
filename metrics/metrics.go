package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	conversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rae_conversions_total",
			Help: "Total number of geodetic to RAE conversions.",
		},
		[]string{"result"},
	)

	rangeMeters = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rae_range_meters",
			Help:    "Range of converted targets in meters.",
			Buckets: prometheus.ExponentialBuckets(100, 4, 10),
		},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rae_alerts_total",
			Help: "Total number of proximity alerts.",
		},
		[]string{"site", "result"},
	)

	tracksPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rae_tracks_pruned_total",
			Help: "Total number of stale tracks dropped.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rae_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rae_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(conversionsTotal)
	prometheus.MustRegister(rangeMeters)
	prometheus.MustRegister(alertsTotal)
	prometheus.MustRegister(tracksPruned)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Conversion records a successful conversion and its range.
func Conversion(rng float64) {
	conversionsTotal.WithLabelValues("ok").Inc()
	rangeMeters.Observe(rng)
}

// InvalidInput records a conversion refused at the input boundary.
func InvalidInput() {
	conversionsTotal.WithLabelValues("invalid").Inc()
}

// Alert records a proximity alert for site, sent or failed.
func Alert(site string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	alertsTotal.WithLabelValues(site, result).Inc()
}

// Pruned records n dropped tracks.
func Pruned(n int) {
	tracksPruned.Add(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the mux path template so that path parameters do not
// create one label per value.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "other"
}

// Middleware records request count and duration for each request. It must be
// installed with mux.Router.Use for path templates to be available.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := routeLabel(r)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
