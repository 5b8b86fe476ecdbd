package migrations

import (
	"context"
	"errors"
	"fmt"

	"invoice_manager/internal/database"
	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"
	"invoice_manager/internal/repository"

	"gorm.io/gorm"
)

// Seed describes the first company and its administrator.
type Seed struct {
	CompanyName  string
	BusinessID   string
	IBAN         string
	BIC          string
	Address      string
	PaymentDays  int
	AdminSubject string
	AdminEmail   string
}

// RunMigrations migrates the schema and, when seed is given, makes sure the
// seeded company and admin exist. Running it again changes nothing.
func RunMigrations(ctx context.Context, db *gorm.DB, seed *Seed) (*models.Company, error) {
	log := logger.WithComponent("migrations")

	log.Info().Msg("running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if seed == nil {
		return nil, nil
	}

	var company *models.Company
	err := repository.NewStore(db).Transaction(ctx, func(tx repository.Store) error {
		var err error
		company, err = createDefaultData(ctx, tx, seed)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default data: %w", err)
	}

	log.Info().Str("company_id", company.ID.String()).Msg("database migrations completed")
	return company, nil
}

func createDefaultData(ctx context.Context, tx repository.Store, seed *Seed) (*models.Company, error) {
	log := logger.WithComponent("migrations")

	if seed.CompanyName == "" {
		return nil, errors.New("company name is required")
	}

	company, err := tx.Companies().GetByName(ctx, seed.CompanyName)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		company = &models.Company{
			Name:               seed.CompanyName,
			BusinessID:         seed.BusinessID,
			IBAN:               seed.IBAN,
			BIC:                seed.BIC,
			Address:            seed.Address,
			DefaultPaymentDays: seed.PaymentDays,
		}
		if err := tx.Companies().Create(ctx, company); err != nil {
			return nil, err
		}
		log.Info().Str("company", company.Name).Msg("company created")
	case err != nil:
		return nil, err
	default:
		log.Info().Str("company", company.Name).Msg("company already exists")
	}

	if seed.AdminSubject == "" {
		return company, nil
	}

	_, err = tx.Users().GetByExternalID(ctx, seed.AdminSubject)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := &models.User{
			CompanyID:  company.ID,
			ExternalID: seed.AdminSubject,
			Email:      seed.AdminEmail,
			Role:       string(models.RoleAdmin),
			IsActive:   true,
		}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return nil, err
		}
		log.Info().Str("subject", admin.ExternalID).Msg("admin user created")
	case err != nil:
		return nil, err
	default:
		log.Info().Str("subject", seed.AdminSubject).Msg("admin user already exists")
	}

	return company, nil
}
