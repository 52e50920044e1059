package mirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"swapsecure/pkg/platform/sentinel"
	txcontext "swapsecure/pkg/platform/tx"
)

// PostgresStore persists mirror transactions.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed transaction store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Upsert(ctx context.Context, tx *Transaction) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO ledger_transactions
			(transaction_ref, contract_address, function_name, user_id, request_id, status, block_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_ref) DO UPDATE SET
			status       = EXCLUDED.status,
			block_number = EXCLUDED.block_number,
			updated_at   = EXCLUDED.updated_at`,
		tx.Ref, tx.ContractAddress, tx.FunctionName, nullString(tx.UserID), nullString(tx.RequestID),
		tx.Status, tx.BlockNumber, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert ledger transaction: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const txColumns = `transaction_ref, contract_address, function_name, user_id, request_id, status, block_number, created_at, updated_at`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*Transaction, error) {
	var (
		tx                Transaction
		userID, requestID sql.NullString
	)
	err := row.Scan(&tx.Ref, &tx.ContractAddress, &tx.FunctionName, &userID, &requestID,
		&tx.Status, &tx.BlockNumber, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tx.UserID = userID.String
	tx.RequestID = requestID.String
	return &tx, nil
}

func (s *PostgresStore) Get(ctx context.Context, ref string) (*Transaction, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM ledger_transactions WHERE transaction_ref = $1`, ref)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %q: %w", ref, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query ledger transaction: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Transaction, error) {
	return s.list(ctx,
		`SELECT `+txColumns+` FROM ledger_transactions ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	return s.list(ctx,
		`SELECT `+txColumns+` FROM ledger_transactions WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Transaction, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger transactions: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
