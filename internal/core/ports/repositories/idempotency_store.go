package repositories

import (
	"context"
	"time"
)

// IdempotencyStore dedupes client requests carrying an Idempotency-Key.
type IdempotencyStore interface {
	// Reserve claims key for ttl. When the key is already held it returns
	// reserved=false and the stored result, which is empty while the first
	// request is still in flight.
	Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, existing string, err error)
	// Complete records the result for a reserved key.
	Complete(ctx context.Context, key, result string, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
