package subscriber

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"swapsecure/pkg/platform/sentinel"
)

// InMemoryStore keeps subscriber records in memory for tests and local
// development.
type InMemoryStore struct {
	mu        sync.RWMutex
	customers map[string]*Customer         // keyed by canonical MSISDN
	lines     map[string]*Line             // keyed by canonical MSISDN
	wallets   map[uuid.UUID]*WalletProfile // keyed by customer ID
}

// NewInMemoryStore constructs an empty in-memory subscriber store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		customers: make(map[string]*Customer),
		lines:     make(map[string]*Line),
		wallets:   make(map[uuid.UUID]*WalletProfile),
	}
}

func (s *InMemoryStore) Provision(_ context.Context, customer *Customer, line *Line, wallet *WalletProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.MSISDN]; ok {
		return fmt.Errorf("customer %s already exists: %w", customer.MSISDN, sentinel.ErrConflict)
	}
	if _, ok := s.lines[line.MSISDN]; ok {
		return fmt.Errorf("line %s already exists: %w", line.MSISDN, sentinel.ErrConflict)
	}

	c := *customer
	l := *line
	w := *wallet
	s.customers[c.MSISDN] = &c
	s.lines[l.MSISDN] = &l
	s.wallets[w.CustomerID] = &w
	return nil
}

func (s *InMemoryStore) GetCustomer(_ context.Context, msisdn string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.customers[msisdn]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, fmt.Errorf("customer %s: %w", msisdn, sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListCustomers(_ context.Context) ([]*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Customer, 0, len(s.customers))
	for _, c := range s.customers {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) GetLine(_ context.Context, msisdn string) (*Line, *Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[msisdn]
	if !ok {
		return nil, nil, fmt.Errorf("line %s: %w", msisdn, sentinel.ErrNotFound)
	}
	for _, c := range s.customers {
		if c.ID == line.CustomerID {
			copiedLine := *line
			copiedCustomer := *c
			return &copiedLine, &copiedCustomer, nil
		}
	}
	return nil, nil, fmt.Errorf("customer for line %s: %w", msisdn, sentinel.ErrNotFound)
}

func (s *InMemoryStore) UpdateLine(_ context.Context, line *Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[line.MSISDN]; !ok {
		return fmt.Errorf("line %s: %w", line.MSISDN, sentinel.ErrNotFound)
	}
	copied := *line
	s.lines[line.MSISDN] = &copied
	return nil
}

func (s *InMemoryStore) GetWallet(_ context.Context, customerID uuid.UUID) (*WalletProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.wallets[customerID]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, fmt.Errorf("wallet for customer %s: %w", customerID, sentinel.ErrNotFound)
}
