package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"FakeNewsDetector/internal/domain"
)

// RedisStore keeps the verdict JSON under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// OpenRedisStore connects to addr and verifies the connection.
func OpenRedisStore(ctx context.Context, addr string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStore(client, key), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load returns the stored verdict or domain.ErrNoResult.
func (r *RedisStore) Load(ctx context.Context) (domain.Verdict, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Verdict{}, domain.ErrNoResult
	}
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeVerdict(raw)
}

// Save upserts the verdict under the configured key.
func (r *RedisStore) Save(ctx context.Context, v domain.Verdict) error {
	raw, err := encodeVerdict(v)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// Close releases the underlying connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
