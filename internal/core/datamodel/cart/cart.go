package cart

import "time"

type Item struct {
	ID        int64     `gorm:"primaryKey"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Item) TableName() string {
	return "cart_items"
}
