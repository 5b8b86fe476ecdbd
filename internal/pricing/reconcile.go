package pricing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
)

// ItemInput is a submitted order line. Lines without an ID are new; lines
// with an ID patch the persisted row, and unset fields keep their old value.
// Quantity is stored in whole units: a fractional value such as 2.5 is
// truncated to 2 and the line totals follow the stored quantity.
type ItemInput struct {
	ID               string                 `json:"id,omitempty"`
	ProductID        patch.Field[uuid.UUID] `json:"product_id"`
	Quantity         patch.Field[Lenient]   `json:"quantity"`
	UnitPriceVatExcl patch.Field[Lenient]   `json:"unit_price_vat_excl"`
	TaxRate          patch.Field[Lenient]   `json:"tax_rate"`
}

func (in ItemInput) isNew() bool {
	return strings.TrimSpace(in.ID) == ""
}

func (in ItemInput) applyTo(item *models.OrderItem) {
	in.ProductID.Apply(&item.ProductID)
	if q, ok := in.Quantity.Get(); ok {
		item.Quantity = quantityOf(q.Decimal)
	}
	if p, ok := in.UnitPriceVatExcl.Get(); ok {
		item.UnitPriceVatExcl = p.Decimal
	}
	if r, ok := in.TaxRate.Get(); ok {
		item.TaxRate = r.Decimal
	}
}

// ItemConflictError reports a submitted line that cannot be matched against
// the persisted lines of the order.
type ItemConflictError struct {
	ItemID string
	Reason string
}

func (e *ItemConflictError) Error() string {
	return fmt.Sprintf("order item %q: %s", e.ItemID, e.Reason)
}

// Plan is the set of writes that brings persisted order lines in line with a
// submission, plus the order totals after those writes.
type Plan struct {
	Deletes      []uuid.UUID
	Updates      []models.OrderItem
	Inserts      []models.OrderItem
	TotalVatExcl decimal.Decimal
	TotalVatIncl decimal.Decimal
}

// NewItems builds the lines of a freshly created order. IDs on the input are
// ignored since nothing is persisted yet.
func NewItems(orderID uuid.UUID, submitted []ItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(submitted))
	for _, in := range submitted {
		item := models.OrderItem{OrderID: orderID}
		in.applyTo(&item)
		ComputeItem(&item)
		items = append(items, item)
	}
	return items
}

// Reconcile diffs submitted lines against the persisted ones. It performs no
// I/O; the caller applies the plan inside one transaction.
func Reconcile(orderID uuid.UUID, existing []models.OrderItem, submitted []ItemInput) (*Plan, error) {
	persisted := make(map[uuid.UUID]models.OrderItem, len(existing))
	for _, item := range existing {
		persisted[item.ID] = item
	}

	plan := &Plan{}
	seen := make(map[uuid.UUID]bool, len(submitted))
	var all []models.OrderItem

	for _, in := range submitted {
		if in.isNew() {
			item := models.OrderItem{OrderID: orderID}
			in.applyTo(&item)
			ComputeItem(&item)
			plan.Inserts = append(plan.Inserts, item)
			all = append(all, item)
			continue
		}

		id, err := uuid.Parse(strings.TrimSpace(in.ID))
		if err != nil {
			return nil, &ItemConflictError{ItemID: in.ID, Reason: "invalid item id"}
		}
		prev, ok := persisted[id]
		if !ok {
			return nil, &ItemConflictError{ItemID: in.ID, Reason: "not part of this order"}
		}
		if seen[id] {
			return nil, &ItemConflictError{ItemID: in.ID, Reason: "submitted more than once"}
		}
		seen[id] = true

		item := prev
		in.applyTo(&item)
		ComputeItem(&item)
		plan.Updates = append(plan.Updates, item)
		all = append(all, item)
	}

	for _, item := range existing {
		if !seen[item.ID] {
			plan.Deletes = append(plan.Deletes, item.ID)
		}
	}

	plan.TotalVatExcl, plan.TotalVatIncl = SumTotals(all)
	return plan, nil
}
