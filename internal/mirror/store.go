package mirror

import "context"

// Store persists mirror transaction records. Upsert is keyed on the
// transaction reference so a confirmation callback can update a PENDING row.
type Store interface {
	Upsert(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, ref string) (*Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]*Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
}
