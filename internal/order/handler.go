package order

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetOrder(ctx context.Context, id int64) (*Order, error)
	GetOrderNotes(ctx context.Context, id int64) ([]Note, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, base *transport.BaseHandler) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// GetOrder handles GET /api/v1/admin/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, appErr := validation.ValidateOrderID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	o, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	notes, err := h.Service.GetOrderNotes(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, OrderResponse{Order: o, Notes: notes})
}
