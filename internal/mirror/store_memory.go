package mirror

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"swapsecure/pkg/platform/sentinel"
)

// InMemoryStore keeps mirror transactions in memory for tests and local
// development.
type InMemoryStore struct {
	mu  sync.RWMutex
	txs map[string]*Transaction
}

// NewInMemoryStore constructs an empty in-memory transaction store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{txs: make(map[string]*Transaction)}
}

func (s *InMemoryStore) Upsert(_ context.Context, tx *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *tx
	if existing, ok := s.txs[tx.Ref]; ok {
		copied.CreatedAt = existing.CreatedAt
	}
	s.txs[tx.Ref] = &copied
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, ref string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[ref]
	if !ok {
		return nil, fmt.Errorf("transaction %q: %w", ref, sentinel.ErrNotFound)
	}
	copied := *tx
	return &copied, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		copied := *tx
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			copied := *tx
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
