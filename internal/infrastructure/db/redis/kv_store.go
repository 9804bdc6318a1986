package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// KeyValueStore persists session records in Redis.
// Key format: <prefix><key>, e.g. console:session:<client_id>:auth
type KeyValueStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewKeyValueStore wraps client. Records expire after ttl; zero keeps them
// until deleted.
func NewKeyValueStore(client *redis.Client, prefix string, ttl time.Duration) *KeyValueStore {
	return &KeyValueStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
