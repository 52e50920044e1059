package subscriber

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/msisdn"
	"swapsecure/pkg/platform/sentinel"
)

// Auditor appends a domain event to the tamper-evident audit ledger.
type Auditor interface {
	Append(ctx context.Context, event, subject string) error
}

// IdentityMirror records identity registration on the external ledger.
// Best-effort: an empty reference means the mirror was unavailable.
type IdentityMirror interface {
	RegisterIdentity(ctx context.Context, userID, subscriberMSISDN string) string
}

// RegisterInput carries the fields needed to provision a customer.
type RegisterInput struct {
	MSISDN      string
	FullName    string
	IDNumber    string
	YearOfBirth int
}

// Service provisions and reads subscriber records.
type Service struct {
	store  Store
	audit  Auditor
	mirror IdentityMirror
	logger *slog.Logger
}

// NewService constructs the subscriber service.
func NewService(store Store, audit Auditor, mirror IdentityMirror, logger *slog.Logger) *Service {
	return &Service{store: store, audit: audit, mirror: mirror, logger: logger}
}

// Register creates a customer and auto-provisions its line (active, prepaid,
// on the IN data path) and a zero-balance wallet profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	normalized, err := msisdn.Normalize(in.MSISDN)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid msisdn")
	}
	if in.FullName == "" || in.IDNumber == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "full name and id number are required")
	}

	now := time.Now().UTC()
	customer := &Customer{
		ID:            uuid.New(),
		MSISDN:        normalized,
		FullName:      in.FullName,
		IDNumber:      in.IDNumber,
		YearOfBirth:   in.YearOfBirth,
		FraudLocation: FraudLocationNormal,
		CreatedAt:     now,
	}
	line := &Line{
		ID:         uuid.New(),
		MSISDN:     normalized,
		CustomerID: customer.ID,
		IsPrepaid:  true,
		OnINData:   true,
		Status:     LineStatusActive,
	}
	wallet := &WalletProfile{CustomerID: customer.ID}

	if err := s.store.Provision(ctx, customer, line, wallet); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "subscriber already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "provision subscriber")
	}

	if err := s.audit.Append(ctx, "CUSTOMER_REGISTERED", normalized); err != nil {
		s.logger.WarnContext(ctx, "audit append failed", "event", "CUSTOMER_REGISTERED", "error", err)
	}

	if ref := s.mirror.RegisterIdentity(ctx, customer.ID.String(), normalized); ref != "" {
		s.logger.InfoContext(ctx, "identity mirrored", "customer_id", customer.ID, "tx_ref", ref)
	}

	return customer, nil
}

// List returns all customers, oldest first.
func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list customers")
	}
	return customers, nil
}
