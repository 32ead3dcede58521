package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "revoked_jti:"

// redisRevocationStore shares revocation state across instances. Expiry is
// delegated to the Redis key TTL, so lookups never see stale entries.
type redisRevocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRevocationStore builds a Redis-backed store for multi-instance
// deployments.
func NewRedisRevocationStore(client *redis.Client, ttl time.Duration) RevocationStore {
	if ttl <= 0 {
		ttl = DefaultRevocationTTL
	}
	return &redisRevocationStore{client: client, ttl: ttl}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Set(ctx, revocationKeyPrefix+jti, "1", s.ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := s.client.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
