package repository

import (
	"context"
	"invoice_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	CustomerID *uuid.UUID
	CreatedBy  *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, companyID uuid.UUID, filter OrderFilter) ([]models.Order, error)
	UpdateHeader(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its Items.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID loads the order header with a row lock held until the surrounding
// transaction ends. Items are not loaded.
func (r *orderRepository) LockByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, companyID uuid.UUID, filter OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("company_id = ?", companyID)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("order_date <= ?", *filter.To)
	}

	var orders []models.Order
	err := query.Order("order_date DESC, created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateHeader writes the order's own columns. Items are left untouched.
func (r *orderRepository) UpdateHeader(ctx context.Context, order *models.Order) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("company_id = ?", order.CompanyID).
		Select("customer_id", "status", "order_date", "extra_info",
			"total_amount_vat_excl", "total_amount_vat_incl", "updated_at").
		Omit(clause.Associations).
		Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(ctx, tx, &models.Order{}, companyID, id); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error
	})
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.created_at, order_items.id")
}
