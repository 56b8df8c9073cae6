package cart

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
)

type RepositoryAPI interface {
	Add(ctx context.Context, sessionID string, item Item) error
	ListBySession(ctx context.Context, sessionID string) ([]Item, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

// Service owns the buyer's cart, keyed by storefront session id.
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

func (s *Service) AddItem(ctx context.Context, sessionID string, item Item) error {
	v := validation.NewValidator()
	v.Field("session_id", sessionID).Required().MaxLength(128)
	v.Field("product_id", item.ProductID).Required()
	v.Field("quantity", int64(item.Quantity)).MinInt(1, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if err := s.repo.Add(ctx, sessionID, item); err != nil {
		s.logger.Error("failed to add cart item", "error", err, "product_id", item.ProductID)
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (s *Service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.repo.ListBySession(ctx, sessionID)
}

// Clear empties the cart. Requests without a session have nothing to clear.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	removed, err := s.repo.DeleteBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to clear cart", "error", err)
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.Debug("cart cleared", "items_removed", removed)
	return nil
}
