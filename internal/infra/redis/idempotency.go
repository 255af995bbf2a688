package redis

import (
	"context"
	"time"

	"github.com/KrappRamiro/zero2prod/internal/domain/ports/adapter"
)

var _ adapter.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore remembers newsletter publish outcomes by Idempotency-Key
// so a retried request does not broadcast the same issue twice. Entries
// expire after the configured TTL.
type IdempotencyStore struct {
	cli RedisClient
	ttl time.Duration
}

func NewIdempotencyStore(cli RedisClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cli: cli, ttl: ttl}
}

func key(k string) string { return "newsletter:idempotency:" + k }

func (s *IdempotencyStore) Get(ctx context.Context, k string) ([]byte, bool, error) {
	v, err := s.cli.Get(ctx, key(k))
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (s *IdempotencyStore) Set(ctx context.Context, k string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.cli.Set(ctx, key(k), value, ttl)
}
