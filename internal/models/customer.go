package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address" gorm:"type:text"`
	BusinessID string         `json:"business_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product is an inventory entry that order lines can be priced from.
type Product struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID       `json:"company_id" gorm:"type:uuid;not null;index"`
	Name             string          `json:"name" gorm:"not null"`
	SKU              string          `json:"sku" gorm:"index"`
	UnitPriceVatExcl decimal.Decimal `json:"unit_price_vat_excl" gorm:"type:numeric;not null;default:0"`
	TaxRate          decimal.Decimal `json:"tax_rate" gorm:"type:numeric;not null;default:0"`
	StockQuantity    int64           `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"-" gorm:"index"`
}
