package ratelimit

import (
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vendorconnect/internal/http/middleware"
	"vendorconnect/internal/logx"
)

// Middleware rejects requests whose client bucket is empty with 429.
type Middleware struct {
	logger  logx.Logger
	counter prometheus.Counter
	limiter Limiter
}

// New creates the middleware. A nil limiter admits everything.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = Unlimited{}
	}
	return &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
	}
}

// Handler returns chi-style middleware. It must run after authentication so
// that signed-in users are keyed by ID rather than address.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			ok, wait := m.limiter.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("client", key.String()),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.Int64("retry_after_ms", wait.Milliseconds()),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				m.logger.Debug("rate limit response write failed",
					logx.String("client", key.String()),
					logx.Err(err),
				)
			}
		})
	}
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(wait time.Duration) string {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func clientKey(r *http.Request) Key {
	if a, ok := middleware.ActorFromContext(r.Context()); ok {
		return Key{Scope: ScopeUser, ID: strconv.FormatInt(a.ID, 10)}
	}
	return Key{Scope: ScopeIP, ID: clientIP(r)}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
