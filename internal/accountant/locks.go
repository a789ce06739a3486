package accountant

import (
	"context"
	"strconv"
	"sync"

	"vendorconnect/internal/domain"
)

// Locks serializes work per key. Entries are reference counted and removed
// once no goroutine holds or waits for them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Key returns the lock key of an aggregate.
func Key(kind domain.Aggregate, id int64) string {
	return string(kind) + ":" + strconv.FormatInt(id, 10)
}

// Lock blocks until key is free or ctx is done. The returned unlock func is
// safe to call more than once.
func (l *Locks) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

// Len returns the number of keys currently held or awaited.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Locks) release(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
