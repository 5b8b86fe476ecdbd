package pricing

import (
	"github.com/shopspring/decimal"

	"invoice_manager/internal/models"
)

var hundred = decimal.NewFromInt(100)

// UnitPriceVatIncl adds tax_rate percent to a VAT-exclusive unit price and
// rounds to cents.
func UnitPriceVatIncl(unitPriceVatExcl, taxRate decimal.Decimal) decimal.Decimal {
	return unitPriceVatExcl.Mul(hundred.Add(taxRate)).Div(hundred).Round(2)
}

// ComputeItem fills the derived price fields of item. The VAT-inclusive unit
// price is rounded once, before it is multiplied by the quantity; line totals
// are never rounded again.
func ComputeItem(item *models.OrderItem) {
	qty := decimal.NewFromInt(item.Quantity)
	item.UnitPriceVatIncl = UnitPriceVatIncl(item.UnitPriceVatExcl, item.TaxRate)
	item.TotalPriceVatExcl = item.UnitPriceVatExcl.Mul(qty)
	item.TotalPriceVatIncl = item.UnitPriceVatIncl.Mul(qty)
}

// SumTotals returns the plain sums of the item line totals.
func SumTotals(items []models.OrderItem) (vatExcl, vatIncl decimal.Decimal) {
	vatExcl, vatIncl = decimal.Zero, decimal.Zero
	for _, item := range items {
		vatExcl = vatExcl.Add(item.TotalPriceVatExcl)
		vatIncl = vatIncl.Add(item.TotalPriceVatIncl)
	}
	return vatExcl, vatIncl
}

// quantityOf truncates a coerced quantity toward zero to whole units. Like the
// rest of the lenient coercion it never fails, so 2.5 becomes 2.
func quantityOf(d decimal.Decimal) int64 {
	return d.IntPart()
}
