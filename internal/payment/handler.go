package payment

import (
	"net/http"

	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/go-chi/chi"
)

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

// ListCallbacks handles GET /api/v1/admin/orders/{id}/callbacks
func (h *Handler) ListCallbacks(w http.ResponseWriter, r *http.Request) {
	orderID, appErr := validation.ValidateOrderID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	callbacks, err := h.Service.ListCallbacks(r.Context(), orderID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CallbackListResponse{OrderID: orderID, Callbacks: callbacks})
}
