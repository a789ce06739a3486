package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"vendorconnect/internal/config"
	"vendorconnect/internal/http/middleware/ratelimit"
	"vendorconnect/internal/logx"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock, logger logx.Logger) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		logger.Info("rate limiting disabled")
		return ratelimit.Unlimited{}
	}
	return ratelimit.NewBucketLimiter(clock, ratelimit.Config{
		Users:      ratelimit.Policy{Rate: rl.Rate, Burst: rl.Burst, TTL: rl.TTL},
		Anonymous:  ratelimit.Policy{Rate: rl.AnonRate, Burst: rl.AnonBurst, TTL: rl.TTL},
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.SystemClock
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}

func registerRateLimit(container *dig.Container) error {
	return provideAll(container,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
	)
}
