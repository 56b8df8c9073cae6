package checkout

import (
	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
)

type ProcessPaymentRequest struct {
	OrderKey  string `json:"order_key"`
	SessionID string `json:"session_id"`
}

func (r *ProcessPaymentRequest) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("order_key", r.OrderKey).Required().MaxLength(64)
	v.Field("session_id", r.SessionID).MaxLength(128)
	return v.Validate()
}

type PaymentMethodsResponse struct {
	Methods []PaymentMethod `json:"methods"`
}
