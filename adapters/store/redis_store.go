package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/ports"
)

// RedisStore is a Redis implementation of the NonceStore interface. Redeem
// uses GETDEL, so the read-and-remove is a single atomic operation and the
// store is safe for horizontally scaled deployments. Expiry is delegated to
// the key TTL; no sweep is needed.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed nonce store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "authgate:nonce:",
	}
}

// Store saves a nonce for an address with the given TTL, overwriting any
// existing value.
func (s *RedisStore) Store(ctx context.Context, address, nonce string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+address, nonce, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	return nil
}

// Redeem atomically reads and removes the nonce for an address. Redis
// treats an expired key as absent, matching the memory store's semantics.
// Store errors surface as a failed redemption: callers render the same
// generic auth failure either way.
func (s *RedisStore) Redeem(ctx context.Context, address string) (string, bool) {
	nonce, err := s.client.GetDel(ctx, s.prefix+address).Result()
	if err != nil {
		return "", false
	}
	return nonce, true
}

var _ ports.NonceStore = (*RedisStore)(nil)
