package kafka

import (
	"context"
	"errors"
	"time"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

type publisher interface {
	Publish(context.Context, domain.Event) error
}

type counter interface {
	Inc()
}

// RetryConfig bounds the retries of RetryingPublisher.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingPublisher retries failed publishes with exponential backoff.
type RetryingPublisher struct {
	next    publisher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingPublisher wraps next. A nil next yields a nil publisher.
func NewRetryingPublisher(next publisher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingPublisher {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingPublisher{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Publish delivers ev, retrying transient failures.
func (p *RetryingPublisher) Publish(ctx context.Context, ev domain.Event) error {
	// Every attempt carries the same event id so consumers can deduplicate.
	if ev.ID == "" {
		ev.ID = FromDomain(ev).ID
	}
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.Publish(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("event publish retry",
			logx.String("type", string(ev.Type)),
			logx.String("key", MessageKey(ev)),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable reports whether err is worth another attempt.
func isRetryable(err error) bool {
	var perm PermanentError
	if errors.As(err, &perm) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// backoff doubles base per attempt and stops at max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base
	for i := 1; i < attempt; i++ {
		if d >= max/2 {
			return max
		}
		d *= 2
	}
	return min(d, max)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
