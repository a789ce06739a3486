package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Policy is the token bucket shape of one scope.
type Policy struct {
	Rate  float64       // tokens per second
	Burst int           // bucket capacity
	TTL   time.Duration // idle buckets are dropped after TTL; 0 keeps them
}

func (p Policy) normalized() Policy {
	if !(p.Rate > 0) {
		p.Rate = 1
	}
	if p.Burst <= 0 {
		p.Burst = 1
	}
	if p.TTL < 0 {
		p.TTL = 0
	}
	return p
}

// Config holds the policy of each scope and the bound on live buckets.
type Config struct {
	Users      Policy
	Anonymous  Policy
	MaxBuckets int // 0 leaves the table unbounded
}

// BucketLimiter keeps one token bucket per client key. A full table evicts
// its least recently used bucket to admit a new client.
type BucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[Key]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewBucketLimiter creates a limiter. A nil clock reads the wall clock.
func NewBucketLimiter(clock Clock, cfg Config) *BucketLimiter {
	if clock == nil {
		clock = SystemClock
	}
	cfg.Users = cfg.Users.normalized()
	cfg.Anonymous = cfg.Anonymous.normalized()
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &BucketLimiter{cfg: cfg, clock: clock, buckets: make(map[Key]*bucket)}
}

func (l *BucketLimiter) policy(s Scope) Policy {
	if s == ScopeUser {
		return l.cfg.Users
	}
	return l.cfg.Anonymous
}

// Allow takes one token from k's bucket.
func (l *BucketLimiter) Allow(k Key) (bool, time.Duration) {
	now := l.clock()
	p := l.policy(k.Scope)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	b, ok := l.buckets[k]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			l.evictLeastRecent()
		}
		b = &bucket{tokens: float64(p.Burst), last: now}
		l.buckets[k] = b
	}
	return b.take(now, p)
}

func (b *bucket) take(now time.Time, p Policy) (bool, time.Duration) {
	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = math.Min(float64(p.Burst), b.tokens+dt.Seconds()*p.Rate)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	return false, time.Duration((1 - b.tokens) / p.Rate * float64(time.Second))
}

// sweep drops idle buckets at most once per half of the shortest TTL.
func (l *BucketLimiter) sweep(now time.Time) {
	interval := l.sweepInterval()
	if interval == 0 || now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(interval)

	for k, b := range l.buckets {
		if ttl := l.policy(k.Scope).TTL; ttl > 0 && now.Sub(b.last) > ttl {
			delete(l.buckets, k)
		}
	}
}

func (l *BucketLimiter) sweepInterval() time.Duration {
	shortest := time.Duration(0)
	for _, ttl := range []time.Duration{l.cfg.Users.TTL, l.cfg.Anonymous.TTL} {
		if ttl > 0 && (shortest == 0 || ttl < shortest) {
			shortest = ttl
		}
	}
	if shortest == 0 {
		return 0
	}
	return max(shortest/2, time.Second)
}

func (l *BucketLimiter) evictLeastRecent() {
	var (
		oldest Key
		seen   time.Time
		found  bool
	)
	for k, b := range l.buckets {
		if !found || b.last.Before(seen) {
			oldest, seen, found = k, b.last, true
		}
	}
	if found {
		delete(l.buckets, oldest)
	}
}
