package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vendorconnect/internal/domain"
	testlog "vendorconnect/internal/testutil"
)

type publishFunc func(context.Context, domain.Event) error

func (f publishFunc) Publish(ctx context.Context, ev domain.Event) error { return f(ctx, ev) }

type counterStub struct{ n int64 }

func (c *counterStub) Inc()         { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

func TestRetryingPublisher_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	var calls int32
	ids := make(map[string]struct{})
	next := publishFunc(func(_ context.Context, ev domain.Event) error {
		ids[ev.ID] = struct{}{}
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("leader not available")
		}
		return nil
	})
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})

	require.NoError(t, p.Publish(context.Background(), statusChanged))
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
	require.EqualValues(t, 2, ctr.Count())
	require.Len(t, ids, 1, "retries reuse the event id")

	_, ok := rec.Find("warn", "event publish retry")
	require.True(t, ok)
}

func TestRetryingPublisher_NoRetryOnPermanent(t *testing.T) {
	t.Parallel()

	var calls int32
	next := publishFunc(func(context.Context, domain.Event) error {
		atomic.AddInt32(&calls, 1)
		return Permanent(errors.New("encode"))
	})
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, testlog.New().Logger(), ctr, RetryConfig{MaxAttempts: 5})

	require.Error(t, p.Publish(context.Background(), statusChanged))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	require.Zero(t, ctr.Count())
}

func TestRetryingPublisher_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("out of brokers")
	var calls int32
	next := publishFunc(func(context.Context, domain.Event) error {
		atomic.AddInt32(&calls, 1)
		return sentinel
	})
	p := NewRetryingPublisher(next, testlog.New().Logger(), nil, RetryConfig{MaxAttempts: 3})

	require.ErrorIs(t, p.Publish(context.Background(), statusChanged), sentinel)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryingPublisher_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	next := publishFunc(func(context.Context, domain.Event) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return errors.New("timeout")
	})
	p := NewRetryingPublisher(next, testlog.New().Logger(), nil,
		RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour})

	require.Error(t, p.Publish(ctx, statusChanged))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	t.Parallel()

	require.Equal(t, 100*time.Millisecond, backoff(100*time.Millisecond, time.Second, 1))
	require.Equal(t, 400*time.Millisecond, backoff(100*time.Millisecond, time.Second, 3))
	require.Equal(t, time.Second, backoff(100*time.Millisecond, time.Second, 5))
}

func TestBackoff_ManyAttemptsStayAtMax(t *testing.T) {
	t.Parallel()

	for _, attempt := range []int{40, 64, 65, 200, 1 << 20} {
		require.Equal(t, 2*time.Second, backoff(150*time.Millisecond, 2*time.Second, attempt), attempt)
	}
	require.Zero(t, backoff(0, time.Second, 3))
}

func TestNewRetryingPublisher_NilNext(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewRetryingPublisher(nil, testlog.New().Logger(), nil, RetryConfig{}))
}
