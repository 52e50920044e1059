package swap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"swapsecure/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in memory for tests and local development.
// Mutate serializes writers per session with a dedicated mutex, mirroring
// the row lock the Postgres store takes.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	locks    map[uuid.UUID]*sync.Mutex
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[uuid.UUID]*Session),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *InMemoryStore) Create(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	s.locks[session.ID] = &sync.Mutex{}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *session
	return &copied, nil
}

func (s *InMemoryStore) GetByVendorSession(_ context.Context, vendorSessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.VendorSessionID != "" && session.VendorSessionID == vendorSessionID {
			copied := *session
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("vendor session %q: %w", vendorSessionID, sentinel.ErrNotFound)
}

func (s *InMemoryStore) HasLockedForLine(_ context.Context, lineID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.LineID == lineID && session.IsLocked {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, session *Session) error) error {
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}

	lock.Lock()
	defer lock.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ctx, session); err != nil {
		return err
	}
	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	return nil
}
