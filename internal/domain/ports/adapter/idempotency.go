package adapter

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of a keyed request for a bounded
// time, so a retried publish with the same Idempotency-Key does not broadcast
// the issue twice. Values are opaque to the store.
type IdempotencyStore interface {
	// Get returns the stored value and true when the key has been seen.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set records the value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
