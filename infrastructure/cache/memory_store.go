package cache

import (
	"context"
	"sync"
	"time"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
)

// TTLCache is a small in-memory cache whose entries expire after a fixed lifetime.
type TTLCache[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
	now  func() time.Time
}

type entry[T any] struct {
	value T
	exp   time.Time
}

func NewTTLCache[T any]() *TTLCache[T] {
	return &TTLCache[T]{data: make(map[string]entry[T]), now: time.Now}
}

// Get returns the cached value or false if absent or expired.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || c.now().After(item.exp) {
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry[T]{value: value, exp: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Sweep drops expired entries and returns how many were removed.
func (c *TTLCache[T]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, item := range c.data {
		if now.After(item.exp) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// MemorySessionStore keeps fetch results in process memory.
type MemorySessionStore struct {
	cache *TTLCache[*model.FetchResult]
	ttl   time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{cache: NewTTLCache[*model.FetchResult](), ttl: ttl}
}

var _ repository.ISessionStore = (*MemorySessionStore)(nil)

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (*model.FetchResult, error) {
	result, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, nil
	}
	return result, nil
}

func (s *MemorySessionStore) Replace(_ context.Context, sessionID string, result *model.FetchResult) error {
	s.cache.Set(sessionID, result, s.ttl)
	return nil
}

// Sweep is meant to be run periodically to release expired sessions.
func (s *MemorySessionStore) Sweep() int {
	return s.cache.Sweep()
}
