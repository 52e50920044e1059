package swap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"swapsecure/pkg/platform/sentinel"
	txcontext "swapsecure/pkg/platform/tx"
)

// PostgresStore persists swap sessions.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed session store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const sessionColumns = `id, line_id, msisdn, stage, primary_attempts, secondary_attempts,
	face_attempts, id_attempts, is_locked, vendor_session_id, vendor_status,
	vendor_payload, ledger_swap_ref, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, session *Session) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO swap_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		session.ID, session.LineID, session.MSISDN, session.Stage,
		session.PrimaryAttempts, session.SecondaryAttempts, session.FaceAttempts, session.IDAttempts,
		session.IsLocked, nullString(session.VendorSessionID), nullString(session.VendorStatus),
		session.VendorPayload, nullString(session.LedgerSwapRef), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert swap session: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanSession(row interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		session                          Session
		vendorSession, vendorStatus, ref sql.NullString
	)
	err := row.Scan(&session.ID, &session.LineID, &session.MSISDN, &session.Stage,
		&session.PrimaryAttempts, &session.SecondaryAttempts, &session.FaceAttempts, &session.IDAttempts,
		&session.IsLocked, &vendorSession, &vendorStatus, &session.VendorPayload, &ref,
		&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	session.VendorSessionID = vendorSession.String
	session.VendorStatus = vendorStatus.String
	session.LedgerSwapRef = ref.String
	return &session, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM swap_sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query swap session: %w", err)
	}
	return session, nil
}

func (s *PostgresStore) GetByVendorSession(ctx context.Context, vendorSessionID string) (*Session, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM swap_sessions WHERE vendor_session_id = $1`, vendorSessionID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor session %q: %w", vendorSessionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query swap session by vendor id: %w", err)
	}
	return session, nil
}

func (s *PostgresStore) HasLockedForLine(ctx context.Context, lineID uuid.UUID) (bool, error) {
	var locked bool
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM swap_sessions WHERE line_id = $1 AND is_locked)`, lineID,
	).Scan(&locked)
	if err != nil {
		return false, fmt.Errorf("query locked sessions: %w", err)
	}
	return locked, nil
}

// Mutate locks the session row with SELECT FOR UPDATE, runs fn inside the
// transaction, and writes the session back. The tx rides the context so
// tx-aware stores invoked by fn join the same unit; commit hooks registered
// by them run only after Commit succeeds.
func (s *PostgresStore) Mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, session *Session) error) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session mutation: %w", err)
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	hooks := &txcontext.Hooks{}
	txCtx := txcontext.WithHooks(txcontext.WithTx(ctx, dbTx), hooks)

	row := dbTx.QueryRowContext(txCtx,
		`SELECT `+sessionColumns+` FROM swap_sessions WHERE id = $1 FOR UPDATE`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock swap session: %w", err)
	}

	if err = fn(txCtx, session); err != nil {
		return err
	}
	session.UpdatedAt = time.Now().UTC()

	_, err = dbTx.ExecContext(txCtx, `
		UPDATE swap_sessions SET
			stage = $2, primary_attempts = $3, secondary_attempts = $4,
			face_attempts = $5, id_attempts = $6, is_locked = $7,
			vendor_session_id = $8, vendor_status = $9, vendor_payload = $10,
			ledger_swap_ref = $11, updated_at = $12
		WHERE id = $1`,
		session.ID, session.Stage, session.PrimaryAttempts, session.SecondaryAttempts,
		session.FaceAttempts, session.IDAttempts, session.IsLocked,
		nullString(session.VendorSessionID), nullString(session.VendorStatus), session.VendorPayload,
		nullString(session.LedgerSwapRef), session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update swap session: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("commit session mutation: %w", err)
	}
	hooks.Run()
	return nil
}
