package ledger

import (
	"context"
	"fmt"
	"sync"

	"swapsecure/pkg/platform/sentinel"
)

// InMemoryStore keeps the chain in memory for tests and local development.
type InMemoryStore struct {
	mu     sync.RWMutex
	blocks []*Block
}

// NewInMemoryStore constructs an empty in-memory chain store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, block *Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expected := int64(len(s.blocks)) + 1
	if block.Index != expected {
		return fmt.Errorf("index %d taken or out of order (want %d): %w", block.Index, expected, sentinel.ErrConflict)
	}
	copied := *block
	s.blocks = append(s.blocks, &copied)
	return nil
}

func (s *InMemoryStore) Last(_ context.Context) (*Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.blocks) == 0 {
		return nil, fmt.Errorf("empty chain: %w", sentinel.ErrNotFound)
	}
	copied := *s.blocks[len(s.blocks)-1]
	return &copied, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]*Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Block
	for _, b := range s.blocks {
		if b.Subject == subject {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Tamper overwrites a stored block in place. Test hook only: it exists so
// chain-verification tests can simulate a retroactive edit that the public
// Store interface forbids.
func (s *InMemoryStore) Tamper(index int64, mutate func(*Block)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.Index == index {
			mutate(b)
			return
		}
	}
}
