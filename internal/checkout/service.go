package checkout

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/frahmantamala/ipg-checkout/internal/core/events"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/frahmantamala/ipg-checkout/internal/notification"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/frahmantamala/ipg-checkout/pkg/logger"
	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
)

type OrderServiceAPI interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status, note string, skipIf ...string) (bool, error)
	PlaceOnHold(ctx context.Context, id int64, paymentMethod string) (*order.Order, bool, error)
	AddNote(ctx context.Context, id int64, note string) error
}

type CartServiceAPI interface {
	Clear(ctx context.Context, sessionID string) error
}

type Notifier interface {
	Trigger(ctx context.Context, template string, orderID int64) error
}

type RequestBuilder interface {
	Build(o ipg.Order) *ipg.GatewayRequest
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	settings  Settings
	orders    OrderServiceAPI
	carts     CartServiceAPI
	notifier  Notifier
	builder   RequestBuilder
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(settings Settings, orders OrderServiceAPI, carts CartServiceAPI, notifier Notifier,
	builder RequestBuilder, publisher EventPublisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		settings:  settings,
		orders:    orders,
		carts:     carts,
		notifier:  notifier,
		builder:   builder,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	if lg, ok := logger.FromContext(ctx); ok {
		return lg
	}
	return s.logger
}

// PaymentMethods lists the gateway when it is enabled.
func (s *Service) PaymentMethods() []PaymentMethod {
	if !s.settings.Enabled {
		return []PaymentMethod{}
	}
	return []PaymentMethod{{
		ID:          ipg.MethodID,
		Title:       s.settings.Title,
		Description: s.settings.Description,
	}}
}

// ProcessPayment puts the order on hold for the gateway, takes the items out
// of stock and empties the buyer's cart. The buyer is then sent to the
// order-received page, which launches the gateway form.
func (s *Service) ProcessPayment(ctx context.Context, orderID int64, orderKey, sessionID string) (*PaymentResult, error) {
	if !s.settings.Enabled {
		return nil, errors.ErrGatewayDisabled
	}

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.KeyMatches(orderKey) {
		s.log(ctx).Warn("payment submitted with wrong order key", "order_id", orderID)
		return nil, errors.ErrInvalidOrderKey
	}

	o, placed, err := s.orders.PlaceOnHold(ctx, orderID, ipg.MethodID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.log(ctx).Warn("cart not cleared after payment submit", "error", err, "order_id", orderID)
	}

	// resubmits of an order already on hold must not send the email again
	if placed {
		if err := s.publisher.Publish(ctx, events.NewOrderOnHoldEvent(o.ID, ipg.MethodID)); err != nil {
			s.log(ctx).Error("failed to publish order on-hold event", "error", err, "order_id", o.ID)
		}
	}

	s.log(ctx).Info("order awaiting gateway payment", "order_id", o.ID, "status", o.Status, "resubmitted", !placed)

	return &PaymentResult{
		Result:   ResultSuccess,
		Redirect: ipg.OrderReceivedURL(s.settings.CheckoutURL, o.GatewayOrder().ID, o.Key),
	}, nil
}

// HandleReturn applies a gateway return redirect to the order and decides
// what the order-received page shows.
//
// The order key is checked before anything else. A success flag moves the
// order to processing unless it is already processing or completed, and
// only the request that performs that move notifies the customer. A fail
// flag moves the order back to pending. Without a flag nothing changes.
func (s *Service) HandleReturn(ctx context.Context, cb ipg.CallbackResult, remoteAddr string) (*ReturnView, error) {
	id, appErr := validation.ValidateOrderID(cb.OrderID)
	if appErr != nil {
		return nil, appErr
	}

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	lg := s.log(ctx).With("order_id", id, "flag", cb.Flag.String())

	if !o.KeyMatches(cb.OrderKey) {
		s.metrics.CallbackReceived(cb.Flag.String(), "rejected")
		lg.Warn("return redirect rejected: order key mismatch", "remote_addr", remoteAddr)
		return nil, errors.ErrInvalidOrderKey
	}

	previous := o.Status
	applied := false

	switch cb.Flag {
	case ipg.FlagSuccess:
		applied, err = s.orders.UpdateStatus(ctx, id, order.StatusProcessing, NoteSuccess, order.StatusCompleted)
		if err != nil {
			return nil, err
		}
		if applied {
			o.Status = order.StatusProcessing
			if err := s.notifier.Trigger(ctx, notification.TemplateCompletedOrder, id); err != nil {
				lg.Error("completion notification not queued", "error", err)
			}
		}
	case ipg.FlagFail:
		applied, err = s.orders.UpdateStatus(ctx, id, order.StatusPending, NoteFailed)
		if err != nil {
			return nil, err
		}
		if applied {
			o.Status = order.StatusPending
		} else if err := s.orders.AddNote(ctx, id, NoteFailed); err != nil {
			// already pending: the status stays, the failure is still audited
			return nil, err
		}
	}

	if cb.Flag != ipg.FlagAbsent {
		if !applied {
			// someone else may have moved the order since we loaded it
			if o, err = s.orders.GetOrder(ctx, id); err != nil {
				return nil, err
			}
		}
		s.recordCallback(ctx, lg, cb.Flag, id, previous, o.Status, applied, remoteAddr)
	}

	return s.view(o), nil
}

func (s *Service) recordCallback(ctx context.Context, lg *slog.Logger, flag ipg.Flag, id int64, previous, resulting string, applied bool, remoteAddr string) {
	outcome := "replayed"
	if applied {
		outcome = "applied"
	}
	s.metrics.CallbackReceived(flag.String(), outcome)

	lg.Info("return redirect handled",
		"previous_status", previous,
		"status", resulting,
		"outcome", outcome)

	event := events.NewCallbackReceivedEvent(id, flag.String(), previous, resulting, applied, remoteAddr)
	if err := s.publisher.Publish(ctx, event); err != nil {
		lg.Error("failed to publish callback event", "error", err)
	}
}

func (s *Service) view(o *order.Order) *ReturnView {
	v := &ReturnView{
		OrderID: o.ID,
		Status:  o.Status,
		Total:   notification.FormatTotal(o),
		Title:   s.settings.Title,
	}

	if o.IsPaid() {
		v.Paid = true
		v.Message = ConfirmationMessage
		return v
	}

	v.Label = SubmitLabel
	v.Request = s.builder.Build(o.GatewayOrder())
	s.metrics.GatewayRequestBuilt()
	return v
}
