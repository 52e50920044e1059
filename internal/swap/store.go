package swap

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary for swap sessions.
//
// Error Contract:
// - Return sentinel.ErrNotFound (wrapped) when a session does not exist.
// - Return wrapped infrastructure errors otherwise.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// GetByVendorSession resolves a session from the vendor's session ID,
	// used by webhook correlation.
	GetByVendorSession(ctx context.Context, vendorSessionID string) (*Session, error)

	// HasLockedForLine reports whether any session for the line is locked.
	HasLockedForLine(ctx context.Context, lineID uuid.UUID) (bool, error)

	// Mutate runs fn under an exclusive per-session lock and persists the
	// session fn leaves behind, all as one atomic unit. The context passed
	// to fn carries the unit's transaction where the backend has one, so
	// writes made through other tx-aware stores (the audit ledger) commit
	// or roll back together with the session. An error from fn aborts the
	// unit; nothing is persisted.
	Mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, session *Session) error) error
}
