package store

import (
	"context"
	"sync"
	"time"

	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/ports"
)

// SweepInterval is how often the background sweep removes expired nonces
// that were never redeemed.
const SweepInterval = time.Minute

// MemoryStore is an in-memory implementation of the NonceStore interface.
// Valid for single-instance or sticky-session deployments only: the map
// lives in process memory, so two instances would not see each other's
// nonces. Use RedisStore when running more than one replica.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]core.NonceRecord
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a memory store and starts its background sweep.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]core.NonceRecord),
		done:    make(chan struct{}),
	}
	go s.sweep(SweepInterval)
	return s
}

// Store saves a nonce for an address, overwriting any existing record.
// One record per address: a second request before redemption silently
// invalidates the first nonce, which keeps the replay window minimal.
func (s *MemoryStore) Store(ctx context.Context, address, nonce string, ttl time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[address] = core.NonceRecord{
		Address:   address,
		Nonce:     nonce,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// Redeem reads and removes the nonce for an address under one lock, so two
// concurrent logins for the same address cannot both succeed. Expired
// records are treated as absent and are still deleted to keep the map bounded.
func (s *MemoryStore) Redeem(ctx context.Context, address string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[address]
	if !ok {
		return "", false
	}
	delete(s.records, address)

	if record.Expired(time.Now()) {
		return "", false
	}
	return record.Nonce, true
}

// Len returns the number of outstanding nonces, for monitoring.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close stops the background sweep. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

// sweep periodically drops expired records that were never redeemed. It is
// advisory cleanup only and never keeps the process alive.
func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for address, record := range s.records {
		if record.Expired(now) {
			delete(s.records, address)
		}
	}
}

var _ ports.NonceStore = (*MemoryStore)(nil)
