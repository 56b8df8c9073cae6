package checkout

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/go-chi/chi"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/order_received.html"))

type ServiceAPI interface {
	PaymentMethods() []PaymentMethod
	ProcessPayment(ctx context.Context, orderID int64, orderKey, sessionID string) (*PaymentResult, error)
	HandleReturn(ctx context.Context, cb ipg.CallbackResult, remoteAddr string) (*ReturnView, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Title   string
}

func NewHandler(service ServiceAPI, title string, base *transport.BaseHandler) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		Title:       title,
	}
}

type pageData struct {
	Title   string
	OrderID string
	Error   string
	View    *ReturnView
}

// OrderReceived handles GET /checkout/order-received/{id}/
func (h *Handler) OrderReceived(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if _, appErr := validation.ValidateOrderID(rawID); appErr != nil {
		h.renderError(w, rawID, appErr)
		return
	}

	cb := ipg.ParseCallback(rawID, r.URL.Query())
	view, err := h.Service.HandleReturn(r.Context(), cb, r.RemoteAddr)
	if err != nil {
		h.renderError(w, rawID, err)
		return
	}

	h.render(w, http.StatusOK, pageData{Title: h.Title, OrderID: rawID, View: view})
}

// ProcessPayment handles POST /api/v1/checkout/orders/{id}/payment
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	orderID, appErr := validation.ValidateOrderID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	var req ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}
	if req.SessionID == "" {
		req.SessionID = errors.SessionIDFromContext(r.Context())
	}
	if appErr := req.Validate(); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	result, err := h.Service.ProcessPayment(r.Context(), orderID, req.OrderKey, req.SessionID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// PaymentMethods handles GET /api/v1/checkout/methods
func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, PaymentMethodsResponse{Methods: h.Service.PaymentMethods()})
}

func (h *Handler) renderError(w http.ResponseWriter, orderID string, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		h.Logger.Error("order-received page failed", "error", err, "order_id", orderID)
		appErr = errors.NewInternalError("internal server error", err)
	} else {
		h.Logger.Warn("order-received page rejected", "code", appErr.Code, "order_id", orderID)
	}
	h.render(w, appErr.StatusCode, pageData{Title: h.Title, OrderID: orderID, Error: appErr.Message})
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.Logger.Error("failed to render order-received page", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	// The page carries a signed request and must never be cached.
	w.Header().Set("Cache-Control", "no-store")
	h.WriteHTML(w, status, buf.Bytes())
}
