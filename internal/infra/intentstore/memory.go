package intentstore

import (
	"context"
	"sync"

	"stayflow/internal/domain/booking"
)

// MemoryStore is an in-process IntentStore with the same read-once
// semantics as the redis one. Used by tests and local development
// without a redis instance.
type MemoryStore struct {
	mu        sync.Mutex
	transient map[string]booking.Intent
	persisted map[string]booking.Intent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transient: make(map[string]booking.Intent),
		persisted: make(map[string]booking.Intent),
	}
}

func (s *MemoryStore) Capture(_ context.Context, sessionID string, intent booking.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transient[sessionID] = intent
	return nil
}

func (s *MemoryStore) PersistAcrossRedirect(_ context.Context, sessionID string, intent booking.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persisted[sessionID] = intent
	return nil
}

func (s *MemoryStore) ConsumePersisted(_ context.Context, sessionID string) (booking.Intent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumePersistedLocked(sessionID)
}

func (s *MemoryStore) consumePersistedLocked(sessionID string) (booking.Intent, bool, error) {
	intent, ok := s.persisted[sessionID]
	if !ok {
		return booking.Intent{}, false, nil
	}
	delete(s.persisted, sessionID)
	return intent, true, nil
}

func (s *MemoryStore) Resolve(_ context.Context, sessionID string) (booking.Intent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if intent, ok := s.transient[sessionID]; ok {
		return intent, true, nil
	}
	return s.consumePersistedLocked(sessionID)
}

func (s *MemoryStore) Discard(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transient, sessionID)
	delete(s.persisted, sessionID)
	return nil
}
