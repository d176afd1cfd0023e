package idempotency

import (
	"context"
	"sync"
)

// MemoryStore keeps idempotency records in process memory. Records live until
// the process exits, which is acceptable for development and tests; durable
// deployments use the Mongo-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Get returns the record for key, or nil if the key has never been seen.
func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record for key. The first writer wins; later writes for the
// same key are ignored so a recorded outcome is never overwritten.
func (s *MemoryStore) Put(_ context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; ok {
		return nil
	}
	s.records[key] = rec
	return nil
}
