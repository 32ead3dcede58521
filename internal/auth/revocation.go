package auth

import (
	"context"
	"sync"
	"time"
)

// DefaultRevocationTTL is how long a revoked jti stays blocked. Tokens are
// themselves time-bounded, so entries older than this are garbage.
const DefaultRevocationTTL = time.Hour

// RevocationStore registers token ids that must no longer be honored.
// Revoke is idempotent; re-revoking resets the expiry window.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// memoryRevocationStore keeps revoked jtis in a mutex-guarded map. Entries
// past their expiry are purged lazily on lookup; there is no background
// sweeper. State is process-local, which is acceptable for single-instance
// deployments because tokens expire on their own.
type memoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
}

// NewMemoryRevocationStore builds an in-memory store. A non-positive ttl
// falls back to DefaultRevocationTTL.
func NewMemoryRevocationStore(ttl time.Duration) RevocationStore {
	if ttl <= 0 {
		ttl = DefaultRevocationTTL
	}
	return &memoryRevocationStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
	}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().Add(s.ttl)
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}
