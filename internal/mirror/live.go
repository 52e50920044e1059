package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"swapsecure/pkg/platform/circuit"
	"swapsecure/pkg/requestcontext"
)

// Live submits contract calls to the blockchain gateway over HTTP. A circuit
// breaker shields the swap workflow from a degraded gateway: while open,
// calls are skipped entirely and the caller sees an empty reference.
type Live struct {
	store           Store
	httpClient      *http.Client
	gatewayURL      string
	contractAddress string
	breaker         *circuit.Breaker
	logger          *slog.Logger
	onFailure       func(operation string)
	now             func() time.Time
}

// LiveOption configures the live mirror.
type LiveOption func(*Live)

// WithHTTPClient overrides the HTTP client used for gateway calls.
func WithHTTPClient(c *http.Client) LiveOption {
	return func(l *Live) { l.httpClient = c }
}

// WithFailureCounter reports each failed gateway call by operation.
func WithFailureCounter(count func(operation string)) LiveOption {
	return func(l *Live) { l.onFailure = count }
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) LiveOption {
	return func(l *Live) { l.breaker = b }
}

// NewLive constructs the gateway-backed mirror.
func NewLive(store Store, gatewayURL, contractAddress string, timeout time.Duration, logger *slog.Logger, opts ...LiveOption) *Live {
	l := &Live{
		store:           store,
		httpClient:      &http.Client{Timeout: timeout},
		gatewayURL:      gatewayURL,
		contractAddress: contractAddress,
		breaker:         circuit.New("ledger-gateway"),
		logger:          logger,
		onFailure:       func(string) {},
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type invokeRequest struct {
	ContractAddress string         `json:"contract_address"`
	FunctionName    string         `json:"function_name"`
	Args            map[string]any `json:"args"`
	RequestID       string         `json:"request_id,omitempty"`
}

type invokeResponse struct {
	TransactionRef string `json:"transaction_ref"`
	BlockNumber    *int64 `json:"block_number,omitempty"`
}

func (l *Live) invoke(ctx context.Context, functionName, userID string, args map[string]any) string {
	if l.breaker.IsOpen() {
		l.logger.WarnContext(ctx, "mirror call skipped, breaker open", "function", functionName)
		l.onFailure(functionName)
		return ""
	}

	ref, blockNumber, err := l.post(ctx, functionName, args)
	if err != nil {
		l.logger.WarnContext(ctx, "mirror call failed", "function", functionName, "error", err)
		l.onFailure(functionName)
		if _, change := l.breaker.RecordFailure(); change.Opened {
			l.logger.ErrorContext(ctx, "ledger gateway breaker opened")
		}
		return ""
	}
	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.logger.InfoContext(ctx, "ledger gateway breaker closed")
	}

	now := l.now().UTC()
	tx := &Transaction{
		Ref:             ref,
		ContractAddress: l.contractAddress,
		FunctionName:    functionName,
		UserID:          userID,
		RequestID:       requestcontext.RequestID(ctx),
		Status:          StatusPending,
		BlockNumber:     blockNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if blockNumber != nil {
		tx.Status = StatusConfirmed
	}
	if err := l.store.Upsert(ctx, tx); err != nil {
		l.logger.WarnContext(ctx, "record mirror transaction", "function", functionName, "error", err)
	}
	return ref
}

func (l *Live) post(ctx context.Context, functionName string, args map[string]any) (string, *int64, error) {
	body, err := json.Marshal(invokeRequest{
		ContractAddress: l.contractAddress,
		FunctionName:    functionName,
		Args:            args,
		RequestID:       requestcontext.RequestID(ctx),
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshal invoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.gatewayURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("call ledger gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", nil, fmt.Errorf("ledger gateway returned %d", resp.StatusCode)
	}

	var out invokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode invoke response: %w", err)
	}
	if out.TransactionRef == "" {
		return "", nil, fmt.Errorf("ledger gateway returned empty transaction ref")
	}
	return out.TransactionRef, out.BlockNumber, nil
}

func (l *Live) RegisterIdentity(ctx context.Context, userID, subscriberMSISDN string) string {
	return l.invoke(ctx, FuncRegisterIdentity, userID, map[string]any{
		"user_id": userID,
		"msisdn":  subscriberMSISDN,
	})
}

func (l *Live) InitiateSwap(ctx context.Context, swapID, subscriberMSISDN string) string {
	return l.invoke(ctx, FuncInitiateSwap, subscriberMSISDN, map[string]any{
		"swap_id": swapID,
		"msisdn":  subscriberMSISDN,
	})
}

func (l *Live) RecordVerification(ctx context.Context, swapID, stage string, passed bool) string {
	return l.invoke(ctx, FuncRecordVerification, "", map[string]any{
		"swap_id": swapID,
		"stage":   stage,
		"passed":  passed,
	})
}

func (l *Live) ApproveSwap(ctx context.Context, swapID string) string {
	return l.invoke(ctx, FuncApproveSwap, "", map[string]any{
		"swap_id": swapID,
	})
}
