// internal/session/memory.go
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"papertrade/internal/util"
)

// MemoryStore is an in-process session store. It backs local development
// without Redis and the test suite. Sessions vanish on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]int64
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]int64)}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return 0, util.ErrNoSession
	}
	return userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
