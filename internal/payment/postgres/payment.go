package postgres

import (
	"context"

	paymentDatamodel "github.com/frahmantamala/ipg-checkout/internal/core/datamodel/payment"
	"github.com/frahmantamala/ipg-checkout/internal/payment"
	"gorm.io/gorm"
)

type CallbackRepository struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) payment.RepositoryAPI {
	return &CallbackRepository{
		db: db,
	}
}

func (r *CallbackRepository) Create(ctx context.Context, cb *payment.Callback) error {
	model := &paymentDatamodel.Callback{
		OrderID:         cb.OrderID,
		Flag:            cb.Flag,
		PreviousStatus:  cb.PreviousStatus,
		ResultingStatus: cb.ResultingStatus,
		Applied:         cb.Applied,
		RemoteAddr:      cb.RemoteAddr,
		ReceivedAt:      cb.ReceivedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	cb.ID = model.ID
	return nil
}

func (r *CallbackRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*payment.Callback, error) {
	var models []paymentDatamodel.Callback
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("received_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	callbacks := make([]*payment.Callback, 0, len(models))
	for _, m := range models {
		callbacks = append(callbacks, &payment.Callback{
			ID:              m.ID,
			OrderID:         m.OrderID,
			Flag:            m.Flag,
			PreviousStatus:  m.PreviousStatus,
			ResultingStatus: m.ResultingStatus,
			Applied:         m.Applied,
			RemoteAddr:      m.RemoteAddr,
			ReceivedAt:      m.ReceivedAt,
		})
	}
	return callbacks, nil
}
