package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/http/middleware"
	"vendorconnect/internal/logx"
)

type stubLimiter struct {
	allow bool
	wait  time.Duration
	keys  *[]Key
}

func (s stubLimiter) Allow(key Key) (bool, time.Duration) {
	if s.keys != nil {
		*s.keys = append(*s.keys, key)
	}
	return s.allow, s.wait
}

func TestMiddleware_Allows_RequestPassesToNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	m := New(logx.Nop(), nil, stubLimiter{allow: true})
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, "expected 200")
	require.Equal(t, 1, nextCalled, "expected next called once")
}

func TestMiddleware_Blocks_Returns429AndIncrementsCounter(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})

	m := New(logx.Nop(), counter, stubLimiter{allow: false})
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, 0, nextCalled, "expected next not called")
	require.Equal(t, http.StatusTooManyRequests, w.Code, "expected 429")
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.Equal(t, `{"error":"too many requests"}`, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter), "expected counter=1")
}

func TestMiddleware_KeysByUserWhenAuthenticated(t *testing.T) {
	t.Parallel()

	var keys []Key
	m := New(logx.Nop(), nil, stubLimiter{allow: true, keys: &keys})
	h := m.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	anon := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	anon.RemoteAddr = "1.2.3.4:5678"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	authed := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	authed.RemoteAddr = "1.2.3.4:5678"
	authed = authed.WithContext(middleware.WithActor(authed.Context(), domain.Actor{ID: 7, Role: domain.RoleVendor}))
	h.ServeHTTP(httptest.NewRecorder(), authed)

	require.Equal(t, []Key{ip("1.2.3.4"), user("7")}, keys)
}

func TestMiddleware_RetryAfterRoundsUp(t *testing.T) {
	t.Parallel()

	m := New(logx.Nop(), nil, stubLimiter{wait: 2100 * time.Millisecond})
	h := m.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/test", nil))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "3", w.Header().Get("Retry-After"))
}

func TestMiddleware_EndToEndWithBucketLimiter(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	l := NewBucketLimiter(clk.Now, Config{Anonymous: Policy{Rate: 0.5, Burst: 1}})
	h := New(logx.Nop(), nil, l).Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
		r.RemoteAddr = "5.6.7.8:1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	require.Equal(t, http.StatusOK, send().Code)
	denied := send()
	require.Equal(t, http.StatusTooManyRequests, denied.Code)
	require.Equal(t, "2", denied.Header().Get("Retry-After"))

	clk.Advance(2 * time.Second)
	require.Equal(t, http.StatusOK, send().Code)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1.2.3.4:5678":   "1.2.3.4",
		"[::1]:80":       "::1",
		"not-a-hostport": "not-a-hostport",
		"":               "unknown",
	}
	for remote, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.RemoteAddr = remote
		require.Equal(t, want, clientIP(r), "remote %q", remote)
	}
}
