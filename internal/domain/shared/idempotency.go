package shared

import (
	"context"
	"time"
)

// IdempotencyStore records Idempotency-Key values of accepted destructive
// requests so a replay is refused instead of repeated.
type IdempotencyStore interface {
	// MarkProcessed atomically records key for ttl. It returns false when the
	// key was already recorded and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget releases key so a failed request can be retried
	Forget(ctx context.Context, key string) error

	Close() error
}
