package ratelimit

import "time"

// Scope tells authenticated users apart from anonymous clients. Each scope has its own policy.
type Scope string

// Client scopes.
const (
	ScopeUser Scope = "user"
	ScopeIP   Scope = "ip"
)

// Key identifies one client bucket.
type Key struct {
	Scope Scope
	ID    string
}

func (k Key) String() string { return string(k.Scope) + ":" + k.ID }

// Limiter decides whether a client may proceed. A denied call reports how long
// the client should wait before its next token.
type Limiter interface {
	Allow(k Key) (ok bool, retryAfter time.Duration)
}

// Unlimited admits every request.
type Unlimited struct{}

// Allow always admits.
func (Unlimited) Allow(Key) (bool, time.Duration) { return true, 0 }
