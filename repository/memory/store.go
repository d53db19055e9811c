// Package memory provides a process-local RecordStore.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/repository"
)

// Store keeps records in a map. FailWrites makes every PutAll return that error.
type Store struct {
	mu         sync.RWMutex
	records    map[string][]byte
	FailWrites error
	writes     int
}

func NewStore() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) PutAll(_ context.Context, records map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for k, v := range records {
		s.records[k] = append([]byte(nil), v...)
	}
	s.writes++
	return nil
}

// Set stores a raw record, bypassing FailWrites.
func (s *Store) Set(key string, value []byte) {
	s.mu.Lock()
	s.records[key] = append([]byte(nil), value...)
	s.mu.Unlock()
}

// Writes counts successful PutAll calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

var _ repository.RecordStore = (*Store)(nil)
