package postgres

import (
	"context"

	"github.com/frahmantamala/ipg-checkout/internal/cart"
	cartDatamodel "github.com/frahmantamala/ipg-checkout/internal/core/datamodel/cart"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) cart.RepositoryAPI {
	return &CartRepository{db: db}
}

func (r *CartRepository) Add(ctx context.Context, sessionID string, item cart.Item) error {
	return r.db.WithContext(ctx).Create(&cartDatamodel.Item{
		SessionID: sessionID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}).Error
}

func (r *CartRepository) ListBySession(ctx context.Context, sessionID string) ([]cart.Item, error) {
	var models []cartDatamodel.Item
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	items := make([]cart.Item, 0, len(models))
	for _, m := range models {
		items = append(items, cart.Item{ProductID: m.ProductID, Quantity: m.Quantity})
	}
	return items, nil
}

func (r *CartRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&cartDatamodel.Item{})
	return res.RowsAffected, res.Error
}
