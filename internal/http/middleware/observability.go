package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"vendorconnect/internal/logx"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpRequestsInFlight)
}

// Observability records request metrics and writes one access log line per request.
// Server errors are logged at warn level.
func Observability(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			// route pattern keeps label cardinality bounded
			path := pathPattern(r)
			tm := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			status := strconv.Itoa(code)

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(tm.Seconds())

			fields := []logx.Field{
				logx.String("request_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", tm),
			}
			if code >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Info("http request", fields...)
		})
	}
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
