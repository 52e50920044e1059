package ledger

import "context"

// Store persists chain blocks. Implementations must reject duplicate
// indexes so two concurrent writers can never both claim the same slot.
//
// Error Contract:
// - Append returns sentinel.ErrConflict (wrapped) on an index collision.
// - Last returns sentinel.ErrNotFound (wrapped) for an empty chain.
type Store interface {
	Append(ctx context.Context, block *Block) error
	Last(ctx context.Context) (*Block, error)
	List(ctx context.Context) ([]*Block, error)
	ListBySubject(ctx context.Context, subject string) ([]*Block, error)
}
