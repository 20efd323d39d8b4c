package memkv

import (
	"context"
	"sync"
)

type Storage struct {
	mu sync.RWMutex
	m  map[string]string
}

func New() *Storage {
	return &Storage{m: make(map[string]string)}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}
