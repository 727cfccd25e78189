package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanMarqz/Cryptocat/pkg/redis"
)

// RedisStore backs claims with Redis SETNX so duplicates are rejected even
// across restarts and replicas.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore wraps the provided Redis client.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Claim attempts a SETNX on the namespaced key.
func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, claimKey(key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim update key: %w", err)
	}

	return claimed, nil
}

func claimKey(key string) string {
	return "cryptocat:dedup:" + key
}
