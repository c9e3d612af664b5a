package repo

import (
	"context"
	"time"
)

// TokenStore is an expiring key-value store backing all opaque tokens.
// Key existence equals token validity; deletion is permanent invalidation.
type TokenStore interface {
	// Set upserts key with a TTL, last write wins.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns errors.ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// GetDel atomically reads and deletes the key. Absent keys yield
	// errors.ErrNotFound, which makes single-use redemption race-free.
	GetDel(ctx context.Context, key string) (string, error)

	// Delete is idempotent, absent keys are not an error.
	Delete(ctx context.Context, key string) error
}
