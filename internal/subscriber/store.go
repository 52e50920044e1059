package subscriber

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary for subscriber records.
//
// Error Contract:
// - Return sentinel.ErrNotFound (wrapped) when an entity does not exist.
// - Return sentinel.ErrConflict (wrapped) on unique-key collisions.
// - Return wrapped infrastructure errors otherwise.
type Store interface {
	// Provision creates a customer together with its auto-created line and
	// wallet profile as one atomic unit.
	Provision(ctx context.Context, customer *Customer, line *Line, wallet *WalletProfile) error

	GetCustomer(ctx context.Context, msisdn string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)

	// GetLine returns the line for a canonical MSISDN together with its
	// owning customer.
	GetLine(ctx context.Context, msisdn string) (*Line, *Customer, error)
	UpdateLine(ctx context.Context, line *Line) error

	GetWallet(ctx context.Context, customerID uuid.UUID) (*WalletProfile, error)
}
