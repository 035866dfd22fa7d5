package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services. A missing key is not an
// error: Get reports presence through the boolean.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
