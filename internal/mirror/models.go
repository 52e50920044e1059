// Package mirror records swap lifecycle milestones on an external
// distributed ledger. The mirror is strictly best-effort: the internal hash
// chain remains authoritative, and a mirror outage never fails a swap.
package mirror

import "time"

// Transaction statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusFailed    = "FAILED"
)

// Contract function names invoked on the external ledger.
const (
	FuncRegisterIdentity   = "registerIdentity"
	FuncInitiateSwap       = "initiateSwap"
	FuncRecordVerification = "recordVerification"
	FuncApproveSwap        = "approveSwap"
)

// Transaction is one recorded mirror call. Ref is the on-ledger transaction
// reference and doubles as the idempotency key.
type Transaction struct {
	Ref             string    `json:"transaction_ref"`
	ContractAddress string    `json:"contract_address"`
	FunctionName    string    `json:"function_name"`
	UserID          string    `json:"user_id,omitempty"`
	RequestID       string    `json:"request_id,omitempty"`
	Status          string    `json:"status"`
	BlockNumber     *int64    `json:"block_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
