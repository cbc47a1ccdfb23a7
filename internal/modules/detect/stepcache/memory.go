package stepcache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store used in tests and redis-less
// development runs.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID, stepName string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[recordKey(sessionID, stepName)]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[recordKey(rec.SessionID, rec.StepName)] = *rec
	return nil
}
