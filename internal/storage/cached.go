package storage

import (
	"context"

	"compras/internal/cache"
)

// CachedStore serves reads from an in-process cache and writes through to
// the wrapped store.
type CachedStore struct {
	next  Store
	cache cache.Cache[[]byte]
}

// NewCachedStore wraps next with c.
func NewCachedStore(next Store, c cache.Cache[[]byte]) *CachedStore {
	return &CachedStore{next: next, cache: c}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	s.cache.Set(key, v)
	return v, true, nil
}

func (s *CachedStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.next.Put(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, value)
	return nil
}

// Ping forwards to the wrapped store when it supports health checks.
func (s *CachedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
