package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ipg-checkout/internal/core/events"
)

type EventHandler struct {
	service ServiceAPI
	logger  *slog.Logger
}

func NewEventHandler(service ServiceAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleCallbackReceived(ctx context.Context, event events.Event) error {
	received, ok := event.(*events.CallbackReceivedEvent)
	if !ok {
		h.logger.Error("invalid event type for callback received handler", "event_type", event.EventType())
		return fmt.Errorf("expected CallbackReceivedEvent, got %T", event)
	}

	cb := &Callback{
		OrderID:         received.OrderID,
		Flag:            received.Flag,
		PreviousStatus:  received.PreviousStatus,
		ResultingStatus: received.ResultingStatus,
		Applied:         received.Applied,
		RemoteAddr:      received.RemoteAddr,
		ReceivedAt:      received.OccurredAt(),
	}
	if err := h.service.RecordCallback(ctx, cb); err != nil {
		return fmt.Errorf("audit callback for order %d: %w", received.OrderID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeCallbackReceived, h.HandleCallbackReceived)

	h.logger.Info("payment event handlers registered",
		"handlers", []string{events.EventTypeCallbackReceived})
}
