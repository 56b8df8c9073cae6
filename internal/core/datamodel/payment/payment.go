package payment

import "time"

// Callback records one inbound gateway return redirect and what it did.
type Callback struct {
	ID              int64     `gorm:"primaryKey"`
	OrderID         int64     `gorm:"column:order_id;not null;index"`
	Flag            string    `gorm:"column:flag;not null"`
	PreviousStatus  string    `gorm:"column:previous_status;not null"`
	ResultingStatus string    `gorm:"column:resulting_status;not null"`
	Applied         bool      `gorm:"column:applied;not null;default:false"`
	RemoteAddr      string    `gorm:"column:remote_addr"`
	ReceivedAt      time.Time `gorm:"column:received_at;not null"`
}

func (Callback) TableName() string {
	return "payment_callbacks"
}
