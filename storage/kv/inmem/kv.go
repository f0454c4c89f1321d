// Package inmemkv holds key-value slots in process memory; for tests.
package inmemkv

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
)

type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ core.KVStore = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
