package mirror

import "context"

// Mirror invokes smart-contract functions on the external ledger. Every
// method returns the transaction reference, or an empty string when the
// mirror is unavailable. Callers log the outcome and move on; no mirror
// failure may block the swap workflow.
type Mirror interface {
	RegisterIdentity(ctx context.Context, userID, subscriberMSISDN string) string
	InitiateSwap(ctx context.Context, swapID, subscriberMSISDN string) string
	RecordVerification(ctx context.Context, swapID, stage string, passed bool) string
	ApproveSwap(ctx context.Context, swapID string) string
}

// Nop satisfies Mirror without doing anything. Used when mirroring is
// disabled by configuration.
type Nop struct{}

func (Nop) RegisterIdentity(context.Context, string, string) string { return "" }

func (Nop) InitiateSwap(context.Context, string, string) string { return "" }

func (Nop) RecordVerification(context.Context, string, string, bool) string { return "" }

func (Nop) ApproveSwap(context.Context, string) string { return "" }
