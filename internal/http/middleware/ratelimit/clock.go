package ratelimit

import "time"

// Clock abstracts time for the limiter so refill and TTL cleanup are
// testable without sleeping.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
