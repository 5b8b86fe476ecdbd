package services

import (
	"invoice_manager/internal/models"

	"github.com/google/uuid"
)

// Actor is the authenticated caller. Every service call is scoped to its company.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canModifyOrder: admins edit any order of their company, users only their own.
func (a Actor) canModifyOrder(order *models.Order) bool {
	return a.IsAdmin() || order.CreatedBy == a.UserID
}

// canModifyInvoice follows the order the invoice was raised from.
func (a Actor) canModifyInvoice(order *models.Order) bool {
	return a.canModifyOrder(order)
}

func (a Actor) canDeleteInvoice() bool {
	return a.IsAdmin()
}
