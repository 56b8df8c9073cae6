package order

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	orderDatamodel "github.com/frahmantamala/ipg-checkout/internal/core/datamodel/order"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = orderDatamodel.StatusPending
	StatusOnHold     = orderDatamodel.StatusOnHold
	StatusProcessing = orderDatamodel.StatusProcessing
	StatusCompleted  = orderDatamodel.StatusCompleted
	StatusFailed     = orderDatamodel.StatusFailed

	keyPrefix = "wc_order_"
)

type Order struct {
	ID            int64           `json:"id"`
	Key           string          `json:"-"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	BillingEmail  string          `json:"billing_email,omitempty"`
	StockReduced  bool            `json:"stock_reduced"`
	Items         []Item          `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Item struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Note struct {
	ID        int64     `json:"id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// IsPaid reports whether the gateway has already confirmed payment.
func (o *Order) IsPaid() bool {
	return o.HasStatus(StatusProcessing, StatusCompleted)
}

func (o *Order) HasStatus(statuses ...string) bool {
	for _, s := range statuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// KeyMatches compares in constant time. An empty key never matches.
func (o *Order) KeyMatches(key string) bool {
	if key == "" || o.Key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(o.Key), []byte(key)) == 1
}

// GatewayOrder is the view of the order the request builder signs.
func (o *Order) GatewayOrder() ipg.Order {
	return ipg.Order{
		ID:    strconv.FormatInt(o.ID, 10),
		Key:   o.Key,
		Total: o.Total,
	}
}

func NewOrderKey() string {
	return keyPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}
