// Package subscriber holds the operator-side view of customers, their lines,
// and their wallet profiles. These records are the read-only inputs to the
// swap eligibility and vetting checks; the swap workflow never mutates them
// except for stamping a line's last swap time on completion.
package subscriber

import (
	"time"

	"github.com/google/uuid"
)

// FraudLocation classifies where the customer's device was last attached.
type FraudLocation string

const (
	FraudLocationNormal     FraudLocation = "NORMAL"
	FraudLocationPrisonSite FraudLocation = "PRISON_SITE"
	FraudLocationDetached   FraudLocation = "DETACHED"
)

// LineStatus is the lifecycle state of a subscriber line.
type LineStatus string

const (
	LineStatusActive    LineStatus = "ACTIVE"
	LineStatusSuspended LineStatus = "SUSPENDED"
	LineStatusIdle      LineStatus = "IDLE"
)

// Customer is the identity record backing primary vetting. Identity fields
// are immutable facts sourced from registration.
type Customer struct {
	ID            uuid.UUID
	MSISDN        string
	FullName      string
	IDNumber      string
	YearOfBirth   int
	IPRSVerified  bool
	IPRSApproved  bool
	FraudLocation FraudLocation
	CreatedAt     time.Time
}

// Line identifies a subscriber line. Owned by exactly one customer.
type Line struct {
	ID             uuid.UUID
	MSISDN         string
	CustomerID     uuid.UUID
	IsGoldenNumber bool
	IsWhitelisted  bool
	IsPrepaid      bool
	IsRoaming      bool
	OnINData       bool
	Status         LineStatus
	LastSwapAt     *time.Time
}

// WalletProfile carries the balances and credit-facility limits used by the
// secondary (knowledge-based) vetting stage. All amounts are in cents so
// tolerance arithmetic stays exact.
type WalletProfile struct {
	CustomerID     uuid.UUID
	MpesaCents     int64
	AirtimeCents   int64
	FulizaCents    *int64
	FulizaOptedIn  bool
	MshwariCents   *int64
	MshwariOptedIn bool
	KCBCents       *int64
	KCBOptedIn     bool
}
