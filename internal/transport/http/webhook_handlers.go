package http

import (
	"encoding/json"
	"io"
	"net/http"

	"swapsecure/internal/gateway"
	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/platform/httputil"
	"swapsecure/pkg/requestcontext"
)

// maxWebhookBody caps webhook payload size. Vendor decision payloads are a
// few KB; anything larger is hostile.
const maxWebhookBody = 1 << 20

type diditWebhookPayload struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// diditWebhook ingests vendor decision callbacks. The raw body is
// authenticated before anything else looks at it; replays are acknowledged
// without effect so vendor retries stay cheap.
func (h *Handlers) diditWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "read webhook body"))
		return
	}

	signature := r.Header.Get("X-Signature")
	if !gateway.VerifySignature(h.WebhookSecret, signature, body) {
		h.Logger.WarnContext(ctx, "webhook signature rejected",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
		)
		h.countWebhookRejection("signature")
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "invalid signature"))
		return
	}

	first, err := h.Replay.FirstDelivery(ctx, signature)
	if err != nil {
		h.Logger.WarnContext(ctx, "replay guard degraded", "error", err)
	}
	if !first {
		h.countWebhookRejection("replay")
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	var payload diditWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.SessionID == "" {
		h.countWebhookRejection("malformed")
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed webhook payload"))
		return
	}

	h.Archive.Store(ctx, payload.SessionID, body)

	result, err := h.Swap.ResolveExternal(ctx, payload.SessionID, payload.Status, body)
	if err != nil {
		// The vendor retries failed deliveries. Drop the fingerprint so the
		// retry is processed, not acknowledged as a replay.
		if forgetErr := h.Replay.Forget(ctx, signature); forgetErr != nil {
			h.Logger.WarnContext(ctx, "replay guard forget failed", "error", forgetErr)
		}
		if dErrors.CodeOf(err) == dErrors.CodeNotFound {
			h.countWebhookRejection("unknown_session")
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) countWebhookRejection(reason string) {
	if h.Metrics != nil {
		h.Metrics.WebhookRejected.WithLabelValues(reason).Inc()
	}
}
