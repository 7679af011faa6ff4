package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type InMemoryResultSetStore struct {
	mu    sync.RWMutex
	clock clockwork.Clock
	items map[string]map[string]resultSetItem
}

type resultSetItem struct {
	value     []byte
	expiresAt time.Time
}

func NewInMemoryResultSetStore(clock clockwork.Clock) *InMemoryResultSetStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InMemoryResultSetStore{
		clock: clock,
		items: make(map[string]map[string]resultSetItem),
	}
}

func (s *InMemoryResultSetStore) Get(_ context.Context, entity, key string) ([]byte, bool, error) {
	now := s.clock.Now()

	s.mu.RLock()
	item, ok := s.items[entity][key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !item.expiresAt.After(now) {
		s.mu.Lock()
		item, ok = s.items[entity][key]
		if ok && !item.expiresAt.After(now) {
			delete(s.items[entity], key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	return cloneBytes(item.value), true, nil
}

func (s *InMemoryResultSetStore) Set(_ context.Context, entity, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		s.mu.Lock()
		delete(s.items[entity], key)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	bucket, ok := s.items[entity]
	if !ok {
		bucket = make(map[string]resultSetItem)
		s.items[entity] = bucket
	}
	bucket[key] = resultSetItem{
		value:     cloneBytes(value),
		expiresAt: s.clock.Now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryResultSetStore) Invalidate(_ context.Context, entity string) error {
	s.mu.Lock()
	delete(s.items, entity)
	s.mu.Unlock()
	return nil
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	cloned := make([]byte, len(value))
	copy(cloned, value)
	return cloned
}
