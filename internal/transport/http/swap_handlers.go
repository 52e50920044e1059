package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"swapsecure/internal/vetting"
	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/platform/httputil"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func sessionIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid session id")
	}
	return id, nil
}

type startSwapRequest struct {
	MSISDN string `json:"msisdn"`
}

func (h *Handlers) startSwap(w http.ResponseWriter, r *http.Request) {
	var req startSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Start(r.Context(), req.MSISDN)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type sessionRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

func (h *Handlers) completeSwap(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Complete(r.Context(), req.SessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) sessionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Status(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) startExternalKYC(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.StartExternal(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type primaryVettingRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	vetting.PrimaryInput
}

func (h *Handlers) primaryVetting(w http.ResponseWriter, r *http.Request) {
	var req primaryVettingRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Primary(r.Context(), req.SessionID, req.PrimaryInput)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type secondaryVettingRequest struct {
	SessionID uuid.UUID       `json:"session_id"`
	Answers   vetting.Answers `json:"answers"`
}

func (h *Handlers) secondaryVetting(w http.ResponseWriter, r *http.Request) {
	var req secondaryVettingRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Secondary(r.Context(), req.SessionID, req.Answers)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type faceVettingRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	vetting.FaceScan
}

func (h *Handlers) faceVetting(w http.ResponseWriter, r *http.Request) {
	var req faceVettingRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.Face(r.Context(), req.SessionID, req.FaceScan)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type idVettingRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	vetting.IDScan
}

func (h *Handlers) idVetting(w http.ResponseWriter, r *http.Request) {
	var req idVettingRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.Swap.IDDocument(r.Context(), req.SessionID, req.IDScan)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
