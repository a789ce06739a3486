package ratelimit

import "time"

// Clock reports the time buckets refill against.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time { return time.Now() }
