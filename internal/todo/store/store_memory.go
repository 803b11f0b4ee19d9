package store

import (
	"context"
	"sync"

	"todo-gateway/internal/todo"
)

// MemoryStore keeps items in a mutex-guarded map. It favors clarity over
// performance and is the default backend for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]todo.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]todo.Item)}
}

func (s *MemoryStore) Create(_ context.Context, item todo.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (todo.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return todo.Item{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]todo.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]todo.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items, nil
}

func (s *MemoryStore) Update(_ context.Context, id, text string, completed bool) (todo.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return todo.Item{}, ErrNotFound
	}
	item.Todo = text
	item.Completed = completed
	s.items[id] = item
	return item, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
