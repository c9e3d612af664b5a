package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
)

// RedisTokenStore backs all opaque tokens. Expiry is enforced by Redis per
// key; the application never sweeps.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
	}
}

func (r *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, safeTTL(ttl)).Err()
}

func (r *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		return "", customErrors.ErrNotFound
	case err != nil:
		return "", err
	}
	return val, nil
}

// GetDel relies on Redis GETDEL so verify-and-revoke is a single atomic
// operation; concurrent redemptions collapse to exactly one winner.
func (r *RedisTokenStore) GetDel(ctx context.Context, key string) (string, error) {
	val, err := r.client.GetDel(ctx, key).Result()
	switch {
	case err == redis.Nil:
		return "", customErrors.ErrNotFound
	case err != nil:
		return "", err
	}
	return val, nil
}

func (r *RedisTokenStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func safeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		// minimal TTL so the key still disappears
		return time.Second
	}
	return ttl
}
