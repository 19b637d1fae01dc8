package items

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps items in process memory. It has the same semantics as
// Store and is meant for local runs without DynamoDB.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Item{}}
}

func (s *MemoryStore) List(ctx context.Context, nameFilter string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := ""
	if strings.TrimSpace(nameFilter) != "" {
		filter = strings.ToLower(nameFilter)
	}
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if filter != "" && !strings.Contains(strings.ToLower(it.Name), filter) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (s *MemoryStore) Create(ctx context.Context, it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID]; ok {
		return ErrAlreadyExists
	}
	s.items[it.ID] = it
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID]; !ok {
		return ErrNotFound
	}
	s.items[it.ID] = it
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
