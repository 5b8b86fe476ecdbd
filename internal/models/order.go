package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order totals are derived from its items on every save and never edited directly.
type Order struct {
	ID                 uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID          uuid.UUID       `json:"company_id" gorm:"type:uuid;not null;index"`
	CustomerID         uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	CreatedBy          uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`
	Status             string          `json:"status" gorm:"default:'draft'"` // draft, pending, completed, cancelled
	OrderDate          time.Time       `json:"order_date"`
	ExtraInfo          string          `json:"extra_info" gorm:"type:text"`
	TotalAmountVatExcl decimal.Decimal `json:"total_amount_vat_excl" gorm:"type:numeric;not null;default:0"`
	TotalAmountVatIncl decimal.Decimal `json:"total_amount_vat_incl" gorm:"type:numeric;not null;default:0"`
	Items              []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `json:"-" gorm:"index"`
}

type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)
