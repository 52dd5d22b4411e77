package sagastore

import (
	"context"
	"sync"

	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"
)

// MemoryStateStore is an in-process StateStore for tests and local
// development. States are copied on the way in and out so callers
// cannot mutate stored state behind the store's back.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]saga.State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]saga.State)}
}

func (s *MemoryStateStore) Save(_ context.Context, state *saga.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.SessionID] = *state
	return nil
}

func (s *MemoryStateStore) Find(_ context.Context, sessionID string) (*saga.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, errs.ErrSagaNotFound
	}
	copied := state
	return &copied, nil
}

func (s *MemoryStateStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

// MemoryStepLocker mirrors the redis locker's reject-while-held
// behavior without a TTL.
type MemoryStepLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryStepLocker() *MemoryStepLocker {
	return &MemoryStepLocker{held: make(map[string]bool)}
}

func (l *MemoryStepLocker) Acquire(_ context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[sessionID] {
		return nil, errs.ErrSagaBusy
	}
	l.held[sessionID] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, sessionID)
	}
	return release, nil
}
