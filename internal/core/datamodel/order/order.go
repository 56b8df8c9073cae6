package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusOnHold     = "on-hold"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Order struct {
	ID            int64           `gorm:"primaryKey"`
	OrderKey      string          `gorm:"column:order_key;not null;uniqueIndex"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Status        string          `gorm:"column:status;not null;default:pending"`
	PaymentMethod string          `gorm:"column:payment_method"`
	BillingEmail  string          `gorm:"column:billing_email"`
	StockReduced  bool            `gorm:"column:stock_reduced;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	Items         []Item          `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

type Item struct {
	ID        int64 `gorm:"primaryKey"`
	OrderID   int64 `gorm:"column:order_id;not null;index"`
	ProductID int64 `gorm:"column:product_id;not null"`
	Quantity  int   `gorm:"column:quantity;not null"`
}

func (Item) TableName() string {
	return "order_items"
}

// Note is an append-only audit line attached to an order.
type Note struct {
	ID        int64     `gorm:"primaryKey"`
	OrderID   int64     `gorm:"column:order_id;not null;index"`
	Note      string    `gorm:"column:note;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Note) TableName() string {
	return "order_notes"
}
