package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewFixedWindowLimiter(time.Minute)

	for i := 0; i < 5; i++ {
		allowed, _, _ := l.Allow("ip:auth", 5)
		assert.True(t, allowed, "request %d within the limit must pass", i+1)
	}

	allowed, remaining, reset := l.Allow("ip:auth", 5)
	assert.False(t, allowed, "request limit+1 in the same window must be rejected")
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewFixedWindowLimiter(time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("a:auth", 3)
	}
	allowed, _, _ := l.Allow("a:auth", 3)
	assert.False(t, allowed)

	allowed, _, _ = l.Allow("b:auth", 3)
	assert.True(t, allowed, "a different key has its own window")

	allowed, _, _ = l.Allow("a:write", 3)
	assert.True(t, allowed, "a different class for the same IP has its own window")
}

func TestWindowReset(t *testing.T) {
	l := NewFixedWindowLimiter(time.Minute)

	now := time.Now()
	l.nowFunc = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		l.Allow("ip:general", 2)
	}
	allowed, _, _ := l.Allow("ip:general", 2)
	assert.False(t, allowed)

	// Advance past the window; the counter must start over.
	l.nowFunc = func() time.Time { return now.Add(61 * time.Second) }
	allowed, remaining, _ := l.Allow("ip:general", 2)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}
