package subscriber

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"swapsecure/pkg/platform/sentinel"
	txcontext "swapsecure/pkg/platform/tx"
)

const pgUniqueViolation = "23505"

// PostgresStore implements Store on the application database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed subscriber store.
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (s *PostgresStore) Provision(ctx context.Context, customer *Customer, line *Line, wallet *WalletProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin provision tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (id, msisdn, full_name, id_number, yob, iprs_verified, iprs_approved, fraud_location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		customer.ID, customer.MSISDN, customer.FullName, customer.IDNumber, customer.YearOfBirth,
		customer.IPRSVerified, customer.IPRSApproved, string(customer.FraudLocation), customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer %s already exists: %w", customer.MSISDN, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lines (id, msisdn, customer_id, is_golden_number, is_whitelisted, is_prepaid, is_roaming, on_in_data, status, last_swap_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		line.ID, line.MSISDN, line.CustomerID, line.IsGoldenNumber, line.IsWhitelisted,
		line.IsPrepaid, line.IsRoaming, line.OnINData, string(line.Status), line.LastSwapAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("line %s already exists: %w", line.MSISDN, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert line: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_profiles (customer_id, mpesa_cents, airtime_cents, fuliza_cents, fuliza_opted_in, mshwari_cents, mshwari_opted_in, kcb_cents, kcb_opted_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		wallet.CustomerID, wallet.MpesaCents, wallet.AirtimeCents,
		wallet.FulizaCents, wallet.FulizaOptedIn,
		wallet.MshwariCents, wallet.MshwariOptedIn,
		wallet.KCBCents, wallet.KCBOptedIn,
	)
	if err != nil {
		return fmt.Errorf("insert wallet profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit provision tx: %w", err)
	}
	return nil
}

const customerColumns = `id, msisdn, full_name, id_number, yob, iprs_verified, iprs_approved, fraud_location, created_at`

func scanCustomer(row interface{ Scan(dest ...any) error }) (*Customer, error) {
	var c Customer
	var fraudLocation string
	err := row.Scan(&c.ID, &c.MSISDN, &c.FullName, &c.IDNumber, &c.YearOfBirth,
		&c.IPRSVerified, &c.IPRSApproved, &fraudLocation, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.FraudLocation = FraudLocation(fraudLocation)
	return &c, nil
}

func (s *PostgresStore) GetCustomer(ctx context.Context, msisdn string) (*Customer, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE msisdn = $1`, msisdn)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", msisdn, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]*Customer, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetLine(ctx context.Context, msisdn string) (*Line, *Customer, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT l.id, l.msisdn, l.customer_id, l.is_golden_number, l.is_whitelisted,
		       l.is_prepaid, l.is_roaming, l.on_in_data, l.status, l.last_swap_at,
		       c.id, c.msisdn, c.full_name, c.id_number, c.yob,
		       c.iprs_verified, c.iprs_approved, c.fraud_location, c.created_at
		FROM lines l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.msisdn = $1`, msisdn)

	var l Line
	var c Customer
	var lineStatus, fraudLocation string
	err := row.Scan(&l.ID, &l.MSISDN, &l.CustomerID, &l.IsGoldenNumber, &l.IsWhitelisted,
		&l.IsPrepaid, &l.IsRoaming, &l.OnINData, &lineStatus, &l.LastSwapAt,
		&c.ID, &c.MSISDN, &c.FullName, &c.IDNumber, &c.YearOfBirth,
		&c.IPRSVerified, &c.IPRSApproved, &fraudLocation, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("line %s: %w", msisdn, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query line: %w", err)
	}
	l.Status = LineStatus(lineStatus)
	c.FraudLocation = FraudLocation(fraudLocation)
	return &l, &c, nil
}

func (s *PostgresStore) UpdateLine(ctx context.Context, line *Line) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE lines
		SET is_golden_number = $2, is_whitelisted = $3, is_prepaid = $4,
		    is_roaming = $5, on_in_data = $6, status = $7, last_swap_at = $8
		WHERE id = $1`,
		line.ID, line.IsGoldenNumber, line.IsWhitelisted, line.IsPrepaid,
		line.IsRoaming, line.OnINData, string(line.Status), line.LastSwapAt,
	)
	if err != nil {
		return fmt.Errorf("update line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("line %s: %w", line.MSISDN, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) GetWallet(ctx context.Context, customerID uuid.UUID) (*WalletProfile, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT customer_id, mpesa_cents, airtime_cents, fuliza_cents, fuliza_opted_in,
		       mshwari_cents, mshwari_opted_in, kcb_cents, kcb_opted_in
		FROM wallet_profiles WHERE customer_id = $1`, customerID)

	var w WalletProfile
	err := row.Scan(&w.CustomerID, &w.MpesaCents, &w.AirtimeCents,
		&w.FulizaCents, &w.FulizaOptedIn,
		&w.MshwariCents, &w.MshwariOptedIn,
		&w.KCBCents, &w.KCBOptedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet for customer %s: %w", customerID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query wallet: %w", err)
	}
	return &w, nil
}
