package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps sessions in a bounded LRU. Idle sessions expire after
// the TTL; when full, the least recently touched session is dropped.
type MemoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, Session]
}

func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryStore{cache: expirable.NewLRU[string, Session](capacity, nil, ttl)}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cache.Peek(s.ID); ok {
		return ErrConflict
	}
	m.cache.Add(s.ID, s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Update(_ context.Context, s Session, prevRevision int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.cache.Peek(s.ID)
	if !ok {
		return ErrNotFound
	}
	if cur.Revision != prevRevision {
		return ErrConflict
	}
	m.cache.Add(s.ID, s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int { return m.cache.Len() }
