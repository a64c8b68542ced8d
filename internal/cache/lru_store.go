package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lruEntry wraps the cached data with its expiry
type lruEntry struct {
	data      []byte
	expiresAt time.Time
}

// LRUStore is an in-process primary tier backed by a bounded LRU. It is
// used when no Redis endpoint is configured, so the cache keeps a fast
// tier even in fully offline deployments.
type LRUStore struct {
	lru *lru.Cache[string, lruEntry]
}

func NewLRUStore(size int) (*LRUStore, error) {
	if size <= 0 {
		size = 1000
	}
	cache, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &LRUStore{lru: cache}, nil
}

func (s *LRUStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		// Entry expired, remove it
		s.lru.Remove(key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (s *LRUStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lru.Add(key, lruEntry{
		data:      append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (s *LRUStore) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

func (s *LRUStore) Purge(_ context.Context, match string) error {
	for _, key := range s.lru.Keys() {
		if strings.Contains(key, match) {
			s.lru.Remove(key)
		}
	}
	return nil
}
