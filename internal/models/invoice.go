package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice bills an order. Amounts are copied from the order when the invoice is created.
type Invoice struct {
	ID                 uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID          uuid.UUID       `json:"company_id" gorm:"type:uuid;not null;uniqueIndex:idx_invoice_number"`
	OrderID            uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	CustomerID         uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	InvoiceNumber      int64           `json:"invoice_number" gorm:"not null;uniqueIndex:idx_invoice_number"`
	Reference          string          `json:"reference" gorm:"not null"`
	IBAN               string          `json:"iban"`
	IssueDate          time.Time       `json:"issue_date" gorm:"type:date"`
	DaysUntilDue       int             `json:"days_until_due"`
	DueDate            time.Time       `json:"due_date" gorm:"type:date"`
	Status             string          `json:"status" gorm:"default:'draft'"` // draft, sent, paid, overdue
	TotalAmountVatExcl decimal.Decimal `json:"total_amount_vat_excl" gorm:"type:numeric;not null;default:0"`
	TotalAmountVatIncl decimal.Decimal `json:"total_amount_vat_incl" gorm:"type:numeric;not null;default:0"`
	SentAt             *time.Time      `json:"sent_at"`
	PaidAt             *time.Time      `json:"paid_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `json:"-" gorm:"index"`
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)
