package ratelimit

// Limiter decides whether a request identified by key (usually client IP)
// may proceed.
type Limiter interface {
	Allow(key string) bool
}
