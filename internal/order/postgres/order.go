package postgres

import (
	"context"
	stdErrors "errors"
	"time"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	orderDatamodel "github.com/frahmantamala/ipg-checkout/internal/core/datamodel/order"
	productDatamodel "github.com/frahmantamala/ipg-checkout/internal/core/datamodel/product"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.RepositoryAPI {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var model orderDatamodel.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&model).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *OrderRepository) TransitionStatus(ctx context.Context, id int64, status, note string, skipIf []string) (bool, error) {
	excluded := append([]string{status}, skipIf...)
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderDatamodel.Order{}).
			Where("id = ? AND status NOT IN ?", id, excluded).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		if note == "" {
			return nil
		}
		return tx.Create(&orderDatamodel.Note{OrderID: id, Note: note}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *OrderRepository) SetPaymentMethod(ctx context.Context, id int64, method string) error {
	return r.db.WithContext(ctx).Model(&orderDatamodel.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_method": method,
			"updated_at":     time.Now(),
		}).Error
}

func (r *OrderRepository) ReduceStock(ctx context.Context, id int64) (bool, error) {
	reduced := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderDatamodel.Order{}).
			Where("id = ? AND stock_reduced = ?", id, false).
			Update("stock_reduced", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var items []orderDatamodel.Item
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Model(&productDatamodel.Product{}).
				Where("id = ? AND manage_stock = ?", item.ProductID, true).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}
		reduced = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return reduced, nil
}

func (r *OrderRepository) AddNote(ctx context.Context, id int64, note string) error {
	return r.db.WithContext(ctx).Create(&orderDatamodel.Note{OrderID: id, Note: note}).Error
}

func (r *OrderRepository) ListNotes(ctx context.Context, id int64) ([]order.Note, error) {
	var models []orderDatamodel.Note
	err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	notes := make([]order.Note, 0, len(models))
	for _, m := range models {
		notes = append(notes, order.Note{ID: m.ID, Note: m.Note, CreatedAt: m.CreatedAt})
	}
	return notes, nil
}

func toModel(o *order.Order) *orderDatamodel.Order {
	items := make([]orderDatamodel.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderDatamodel.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	status := o.Status
	if status == "" {
		status = orderDatamodel.StatusPending
	}
	return &orderDatamodel.Order{
		ID:            o.ID,
		OrderKey:      o.Key,
		Total:         o.Total,
		Status:        status,
		PaymentMethod: o.PaymentMethod,
		BillingEmail:  o.BillingEmail,
		StockReduced:  o.StockReduced,
		Items:         items,
	}
}

func toDomain(m *orderDatamodel.Order) *order.Order {
	items := make([]order.Item, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, order.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &order.Order{
		ID:            m.ID,
		Key:           m.OrderKey,
		Total:         m.Total,
		Status:        m.Status,
		PaymentMethod: m.PaymentMethod,
		BillingEmail:  m.BillingEmail,
		StockReduced:  m.StockReduced,
		Items:         items,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
