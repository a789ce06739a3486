// Package adminserver serves operational endpoints (metrics and profiling) on a
// separate port from the public API.
package adminserver

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vendorconnect/internal/logx"
)

// Config stores credentials required from non-loopback clients.
type Config struct {
	User string
	Pass string
}

// Handler returns the admin mux: /metrics, /debug/pprof/* and /healthz.
// Everything except /healthz requires loopback or basic auth.
func Handler(logger logx.Logger, cfg Config, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(authOrLocalOnly(logger, cfg))
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

		r.HandleFunc("/debug/pprof/", pprof.Index)
		r.HandleFunc("/debug/pprof/profile", pprof.Profile)
		r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/debug/pprof/trace", pprof.Trace)
		r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		for _, name := range []string{"heap", "goroutine", "allocs", "block", "mutex", "threadcreate"} {
			r.Handle("/debug/pprof/"+name, pprof.Handler(name))
		}
	})
	return r
}

func authOrLocalOnly(logger logx.Logger, cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			u, p, ok := r.BasicAuth()
			if cfg.User == "" || cfg.Pass == "" || !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
				logger.Warn("admin access denied",
					logx.String("remote_addr", r.RemoteAddr),
					logx.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func secureEq(u, s string) bool {
	if len(u) != len(s) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u), []byte(s)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
