package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ipg-checkout/internal/core/events"
)

type Trigger interface {
	Trigger(ctx context.Context, template string, orderID int64) error
}

type EventHandler struct {
	notifier Trigger
	logger   *slog.Logger
}

func NewEventHandler(notifier Trigger, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		notifier: notifier,
		logger:   logger,
	}
}

func (h *EventHandler) HandleOrderOnHold(ctx context.Context, event events.Event) error {
	onHold, ok := event.(*events.OrderOnHoldEvent)
	if !ok {
		h.logger.Error("invalid event type for order on-hold handler", "event_type", event.EventType())
		return fmt.Errorf("expected OrderOnHoldEvent, got %T", event)
	}

	if err := h.notifier.Trigger(ctx, TemplateOnHoldOrder, onHold.OrderID); err != nil {
		return fmt.Errorf("queue on-hold notification for order %d: %w", onHold.OrderID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeOrderOnHold, h.HandleOrderOnHold)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeOrderOnHold})
}
