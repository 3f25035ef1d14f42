package kv

import (
	"context"

	"token-signal-bot/pkg/cache"
)

type memoryStore struct {
	cache cache.Cache
}

// NewMemoryStore keeps values in process memory without expiry. Contents do
// not survive a restart; meant for local runs and tests.
func NewMemoryStore() Store {
	return &memoryStore{cache: cache.NewCache(cache.NoExpiration, 0)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := cache.GetTyped[[]byte](s.cache, key)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryStore) Put(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.cache.Set(key, stored, cache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *memoryStore) Close() error {
	s.cache.Flush()
	return nil
}
