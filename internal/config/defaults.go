package config

import "time"

const defaultOperationTimeout = 3 * time.Second

var defaultPublisher = Publisher{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

// DefaultOperationTimeout returns the per-operation timeout used by services.
func DefaultOperationTimeout() time.Duration {
	return defaultOperationTimeout
}

// DefaultPublisher returns the default event publisher retry settings.
func DefaultPublisher() Publisher {
	return defaultPublisher
}
