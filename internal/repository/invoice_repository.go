package repository

import (
	"context"
	"invoice_manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceFilter struct {
	OrderID    *uuid.UUID
	CustomerID *uuid.UUID
	Status     string
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var invoices []models.Invoice
	err := query.Order("invoice_number DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, &models.Invoice{}, companyID, id)
}
