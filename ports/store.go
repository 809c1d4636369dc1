package ports

import (
	"context"
	"time"
)

// NonceStore holds single-use authentication challenges keyed by address.
//
// The in-memory implementation is safe for a single instance only; scaled
// deployments must use the Redis implementation, whose Redeem is backed by
// an atomic GETDEL.
type NonceStore interface {
	// Store saves a nonce for an address, overwriting any existing one.
	Store(ctx context.Context, address, nonce string, ttl time.Duration) error

	// Redeem atomically reads and removes the nonce for an address.
	// It returns false when no live nonce exists; an expired record is
	// treated as absent and removed as a side effect. Two concurrent
	// redeems for the same address must not both succeed.
	Redeem(ctx context.Context, address string) (string, bool)
}
