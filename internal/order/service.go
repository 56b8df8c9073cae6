package order

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/ipg-checkout/internal"
)

const NoteAwaitingPayment = "Awaiting offline payment"

type RepositoryAPI interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// TransitionStatus moves the order to status and appends note in one
	// transaction, unless the current status is status itself or one of
	// skipIf. It reports whether the row changed.
	TransitionStatus(ctx context.Context, id int64, status, note string, skipIf []string) (bool, error)
	SetPaymentMethod(ctx context.Context, id int64, method string) error
	// ReduceStock decrements managed stock for every line item, at most once
	// per order.
	ReduceStock(ctx context.Context, id int64) (bool, error)
	AddNote(ctx context.Context, id int64, note string) error
	ListNotes(ctx context.Context, id int64) ([]Note, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO) (*Order, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	o := &Order{
		Key:          NewOrderKey(),
		Total:        dto.Total,
		Status:       StatusPending,
		BillingEmail: dto.BillingEmail,
		Items:        dto.Items,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create order", "error", err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created", "order_id", o.ID, "total", o.Total.StringFixed(2))
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := errors.IsAppError(err); !ok {
			s.logger.Error("failed to load order", "error", err, "order_id", id)
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) GetOrderNotes(ctx context.Context, id int64) ([]Note, error) {
	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		s.logger.Error("failed to list order notes", "error", err, "order_id", id)
		return nil, fmt.Errorf("list order notes: %w", err)
	}
	return notes, nil
}

// UpdateStatus transitions the order unless it already sits in status or in
// one of skipIf. The check and the write happen in the store, so concurrent
// callers cannot both apply the same transition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status, note string, skipIf ...string) (bool, error) {
	applied, err := s.repo.TransitionStatus(ctx, id, status, note, skipIf)
	if err != nil {
		s.logger.Error("failed to update order status", "error", err, "order_id", id, "status", status)
		return false, fmt.Errorf("update order status: %w", err)
	}

	if applied {
		s.logger.Info("order status updated", "order_id", id, "status", status, "note", note)
	} else {
		s.logger.Debug("order status unchanged", "order_id", id, "status", status)
	}
	return applied, nil
}

// AddNote appends an audit line without touching the status.
func (s *Service) AddNote(ctx context.Context, id int64, note string) error {
	if err := s.repo.AddNote(ctx, id, note); err != nil {
		s.logger.Error("failed to add order note", "error", err, "order_id", id)
		return fmt.Errorf("add order note: %w", err)
	}
	return nil
}

// PlaceOnHold parks the order until the gateway reports back and takes the
// ordered items out of stock. It reports whether this call moved the order
// to on-hold; a resubmit of an order already on hold returns false.
func (s *Service) PlaceOnHold(ctx context.Context, id int64, paymentMethod string) (*Order, bool, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if o.IsPaid() {
		return nil, false, errors.ErrOrderAlreadyPaid
	}

	if o.PaymentMethod != paymentMethod {
		if err := s.repo.SetPaymentMethod(ctx, id, paymentMethod); err != nil {
			s.logger.Error("failed to set payment method", "error", err, "order_id", id)
			return nil, false, fmt.Errorf("set payment method: %w", err)
		}
	}

	applied, err := s.UpdateStatus(ctx, id, StatusOnHold, NoteAwaitingPayment, StatusProcessing, StatusCompleted)
	if err != nil {
		return nil, false, err
	}

	reduced, err := s.repo.ReduceStock(ctx, id)
	if err != nil {
		s.logger.Error("failed to reduce stock", "error", err, "order_id", id)
		return nil, false, fmt.Errorf("reduce stock: %w", err)
	}
	if reduced {
		s.logger.Info("stock reduced for order", "order_id", id, "items", len(o.Items))
	}

	held, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return held, applied, nil
}
