package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type RepositoryAPI interface {
	Create(ctx context.Context, cb *Callback) error
	ListByOrderID(ctx context.Context, orderID int64) ([]*Callback, error)
}

type ServiceAPI interface {
	RecordCallback(ctx context.Context, cb *Callback) error
	ListCallbacks(ctx context.Context, orderID int64) ([]*Callback, error)
}

// Service keeps the audit log of gateway callbacks.
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

func (s *Service) RecordCallback(ctx context.Context, cb *Callback) error {
	if cb.ReceivedAt.IsZero() {
		cb.ReceivedAt = time.Now()
	}

	if err := s.repo.Create(ctx, cb); err != nil {
		s.logger.Error("failed to record payment callback", "error", err, "order_id", cb.OrderID, "flag", cb.Flag)
		return fmt.Errorf("record payment callback: %w", err)
	}

	s.logger.Info("payment callback recorded",
		"order_id", cb.OrderID,
		"flag", cb.Flag,
		"previous_status", cb.PreviousStatus,
		"resulting_status", cb.ResultingStatus,
		"applied", cb.Applied)
	return nil
}

func (s *Service) ListCallbacks(ctx context.Context, orderID int64) ([]*Callback, error) {
	callbacks, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("failed to list payment callbacks", "error", err, "order_id", orderID)
		return nil, fmt.Errorf("list payment callbacks: %w", err)
	}
	return callbacks, nil
}
