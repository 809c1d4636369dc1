package ports

import "time"

// RateLimiter maintains fixed-window request counters keyed by caller and
// limit class.
type RateLimiter interface {
	// Allow records one request for the key and reports whether it is
	// within the limit. It returns the remaining budget in the current
	// window and the instant the window resets.
	Allow(key string, limit int) (allowed bool, remaining int, reset time.Time)
}
