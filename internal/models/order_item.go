package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one order line. TaxRate is a percentage, 24 meaning 24%.
type OrderItem struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `json:"product_id" gorm:"type:uuid"`
	Quantity          int64           `json:"quantity" gorm:"not null;default:0"`
	UnitPriceVatExcl  decimal.Decimal `json:"unit_price_vat_excl" gorm:"type:numeric;not null;default:0"`
	TaxRate           decimal.Decimal `json:"tax_rate" gorm:"type:numeric;not null;default:0"`
	UnitPriceVatIncl  decimal.Decimal `json:"unit_price_vat_incl" gorm:"type:numeric;not null;default:0"`
	TotalPriceVatExcl decimal.Decimal `json:"total_price_vat_excl" gorm:"type:numeric;not null;default:0"`
	TotalPriceVatIncl decimal.Decimal `json:"total_price_vat_incl" gorm:"type:numeric;not null;default:0"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
