package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"swapsecure/internal/subscriber"
	"swapsecure/pkg/platform/httputil"
)

type registerCustomerRequest struct {
	MSISDN      string `json:"msisdn"`
	FullName    string `json:"full_name"`
	IDNumber    string `json:"id_number"`
	YearOfBirth int    `json:"yob"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	MSISDN    string    `json:"msisdn"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(c *subscriber.Customer) customerResponse {
	return customerResponse{ID: c.ID, MSISDN: c.MSISDN, FullName: c.FullName, CreatedAt: c.CreatedAt}
}

func (h *Handlers) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	customer, err := h.Subscribers.Register(r.Context(), subscriber.RegisterInput{
		MSISDN:      req.MSISDN,
		FullName:    req.FullName,
		IDNumber:    req.IDNumber,
		YearOfBirth: req.YearOfBirth,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Subscribers.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"customers": out})
}
