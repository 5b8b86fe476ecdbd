package repository

import (
	"context"
	"invoice_manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	ReserveInvoiceNumber(ctx context.Context, id uuid.UUID) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// ReserveInvoiceNumber hands out the next invoice number of a company. Call it
// inside a transaction so the number is released again on rollback.
func (r *companyRepository) ReserveInvoiceNumber(ctx context.Context, id uuid.UUID) (int64, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&company, "id = ?", id).Error
	if err != nil {
		return 0, err
	}

	number := company.NextInvoiceNumber
	err = r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Update("next_invoice_number", number+1).Error
	if err != nil {
		return 0, err
	}
	return number, nil
}
