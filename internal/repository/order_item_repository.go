package repository

import (
	"context"
	"invoice_manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(ctx context.Context, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	Update(ctx context.Context, item *models.OrderItem) error
	DeleteByIDs(ctx context.Context, orderID uuid.UUID, ids []uuid.UUID) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the editable and derived columns of one line of its order.
func (r *orderItemRepository) Update(ctx context.Context, item *models.OrderItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("order_id = ?", item.OrderID).
		Select("product_id", "quantity", "unit_price_vat_excl", "tax_rate",
			"unit_price_vat_incl", "total_price_vat_excl", "total_price_vat_incl", "updated_at").
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderItemRepository) DeleteByIDs(ctx context.Context, orderID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&models.OrderItem{}).Error
}
