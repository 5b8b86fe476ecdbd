package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant. Its bank account is printed on every invoice.
type Company struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	BusinessID         string    `json:"business_id"`
	IBAN               string    `json:"iban"`
	BIC                string    `json:"bic"`
	Address            string    `json:"address" gorm:"type:text"`
	DefaultPaymentDays int       `json:"default_payment_days" gorm:"default:14"`
	NextInvoiceNumber  int64     `json:"next_invoice_number" gorm:"not null;default:1000"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
