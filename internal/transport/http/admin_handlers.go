package http

import (
	"net/http"
	"strings"

	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/platform/httputil"
	"swapsecure/pkg/requestcontext"
)

type operatorLoginRequest struct {
	OperatorID string `json:"operator_id"`
	Password   string `json:"password"`
}

func (h *Handlers) operatorLogin(w http.ResponseWriter, r *http.Request) {
	var req operatorLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.Operator.Login(req.Password, req.OperatorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// requireOperator gates admin routes behind a valid operator bearer token.
func (h *Handlers) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "operator token required"))
			return
		}
		operatorID, err := h.Operator.Validate(token)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		ctx := requestcontext.WithOperatorID(r.Context(), operatorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) lockSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.Swap.OperatorLock(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.Logger.InfoContext(r.Context(), "session locked by operator",
		"session_id", id,
		"operator_id", requestcontext.OperatorID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"locked": true})
}
