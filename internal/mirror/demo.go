package mirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"swapsecure/pkg/requestcontext"
)

// Demo simulates the external ledger without any network dependency. The
// transaction reference is deterministic over the function name and
// correlation ID, so repeated calls for the same milestone yield the same
// reference. Every demo transaction is recorded as CONFIRMED immediately.
type Demo struct {
	store           Store
	contractAddress string
	logger          *slog.Logger
	now             func() time.Time
}

// NewDemo constructs the simulated mirror.
func NewDemo(store Store, contractAddress string, logger *slog.Logger) *Demo {
	return &Demo{store: store, contractAddress: contractAddress, logger: logger, now: time.Now}
}

func demoRef(functionName, correlationID string) string {
	sum := sha256.Sum256([]byte(functionName + ":" + correlationID))
	return "0x" + hex.EncodeToString(sum[:])
}

func (d *Demo) record(ctx context.Context, functionName, correlationID, userID string) string {
	ref := demoRef(functionName, correlationID)
	now := d.now().UTC()
	tx := &Transaction{
		Ref:             ref,
		ContractAddress: d.contractAddress,
		FunctionName:    functionName,
		UserID:          userID,
		RequestID:       requestcontext.RequestID(ctx),
		Status:          StatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := d.store.Upsert(ctx, tx); err != nil {
		d.logger.WarnContext(ctx, "record demo mirror transaction", "function", functionName, "error", err)
	}
	return ref
}

func (d *Demo) RegisterIdentity(ctx context.Context, userID, subscriberMSISDN string) string {
	return d.record(ctx, FuncRegisterIdentity, subscriberMSISDN, userID)
}

func (d *Demo) InitiateSwap(ctx context.Context, swapID, subscriberMSISDN string) string {
	return d.record(ctx, FuncInitiateSwap, swapID, subscriberMSISDN)
}

func (d *Demo) RecordVerification(ctx context.Context, swapID, stage string, passed bool) string {
	return d.record(ctx, FuncRecordVerification, fmt.Sprintf("%s:%s:%t", swapID, stage, passed), "")
}

func (d *Demo) ApproveSwap(ctx context.Context, swapID string) string {
	return d.record(ctx, FuncApproveSwap, swapID, "")
}
