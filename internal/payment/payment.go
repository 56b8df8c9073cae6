package payment

import "time"

// Callback is one audited gateway return redirect.
type Callback struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"order_id"`
	Flag            string    `json:"flag"`
	PreviousStatus  string    `json:"previous_status"`
	ResultingStatus string    `json:"resulting_status"`
	Applied         bool      `json:"applied"`
	RemoteAddr      string    `json:"remote_addr,omitempty"`
	ReceivedAt      time.Time `json:"received_at"`
}

type CallbackListResponse struct {
	OrderID   int64       `json:"order_id"`
	Callbacks []*Callback `json:"callbacks"`
}
