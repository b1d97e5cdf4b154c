package ratelimit

// NopLimiter admits every request. Used when rate limiting is disabled in
// config.
type NopLimiter struct{}

func (NopLimiter) Allow(string) bool { return true }

// NewNopLimiter returns a Limiter that never rejects.
func NewNopLimiter() Limiter { return NopLimiter{} }
