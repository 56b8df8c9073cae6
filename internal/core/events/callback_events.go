package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCallbackReceived = "payment.callback_received"
	EventTypeOrderOnHold      = "order.on_hold"
)

// CallbackReceivedEvent is published for every success or fail return
// redirect, including replays that changed nothing.
type CallbackReceivedEvent struct {
	BaseEvent
	OrderID         int64  `json:"order_id"`
	Flag            string `json:"flag"`
	PreviousStatus  string `json:"previous_status"`
	ResultingStatus string `json:"resulting_status"`
	Applied         bool   `json:"applied"`
	RemoteAddr      string `json:"remote_addr"`
}

func NewCallbackReceivedEvent(orderID int64, flag, previousStatus, resultingStatus string, applied bool, remoteAddr string) *CallbackReceivedEvent {
	return &CallbackReceivedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCallbackReceived,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":         orderID,
				"flag":             flag,
				"previous_status":  previousStatus,
				"resulting_status": resultingStatus,
				"applied":          applied,
			},
		},
		OrderID:         orderID,
		Flag:            flag,
		PreviousStatus:  previousStatus,
		ResultingStatus: resultingStatus,
		Applied:         applied,
		RemoteAddr:      remoteAddr,
	}
}

// OrderOnHoldEvent is published once an order is waiting on the gateway.
type OrderOnHoldEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
}

func NewOrderOnHoldEvent(orderID int64, paymentMethod string) *OrderOnHoldEvent {
	return &OrderOnHoldEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderOnHold,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":       orderID,
				"payment_method": paymentMethod,
			},
		},
		OrderID:       orderID,
		PaymentMethod: paymentMethod,
	}
}
