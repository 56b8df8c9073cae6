package order

import (
	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateOrderDTO struct {
	BillingEmail string          `json:"billing_email"`
	Total        decimal.Decimal `json:"total"`
	Items        []Item          `json:"items"`
}

func (dto CreateOrderDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("billing_email", dto.BillingEmail).Required().MaxLength(255)
	v.Field("total", dto.Total).Custom(func(interface{}) *errors.AppError {
		if dto.Total.IsNegative() {
			return errors.NewValidationFieldError("total", "total cannot be negative", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	for _, item := range dto.Items {
		v.Field("items.product_id", item.ProductID).Required()
		v.Field("items.quantity", int64(item.Quantity)).MinInt(1, errors.ErrCodeValidationFailed)
	}
	return v.Validate()
}

type OrderResponse struct {
	*Order
	Notes []Note `json:"notes"`
}
