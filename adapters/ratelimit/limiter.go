package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/remitwise/authgate/ports"
)

const (
	// DefaultWindow is the fixed counting window.
	DefaultWindow = time.Minute

	// maxKeys bounds the cache so an attacker rotating source IPs cannot
	// grow memory without limit.
	maxKeys = 10000
)

type window struct {
	count int
	reset time.Time
}

// FixedWindowLimiter counts requests per key in fixed windows. Entries are
// held in an expirable LRU sized to maxKeys; stale windows age out on their
// own, so there is no sweep to run.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *window]
	window  time.Duration
	nowFunc func() time.Time
}

// NewFixedWindowLimiter creates a limiter with the given window duration.
func NewFixedWindowLimiter(windowDur time.Duration) *FixedWindowLimiter {
	if windowDur <= 0 {
		windowDur = DefaultWindow
	}
	return &FixedWindowLimiter{
		cache:   expirable.NewLRU[string, *window](maxKeys, nil, windowDur),
		window:  windowDur,
		nowFunc: time.Now,
	}
}

// Allow records one request for key and reports whether it stays within
// limit. The count resets when the window expires.
func (l *FixedWindowLimiter) Allow(key string, limit int) (bool, int, time.Time) {
	now := l.nowFunc()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.cache.Get(key)
	if !ok || now.After(w.reset) {
		w = &window{reset: now.Add(l.window)}
		l.cache.Add(key, w)
	}
	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return w.count <= limit, remaining, w.reset
}

var _ ports.RateLimiter = (*FixedWindowLimiter)(nil)
