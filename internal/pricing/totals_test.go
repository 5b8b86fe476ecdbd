package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice_manager/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestComputeItem(t *testing.T) {
	tests := []struct {
		name      string
		qty       int64
		price     string
		taxRate   string
		unitIncl  string
		totalExcl string
		totalIncl string
	}{
		{name: "standard rate", qty: 2, price: "10", taxRate: "24", unitIncl: "12.40", totalExcl: "20", totalIncl: "24.80"},
		{name: "zero rate", qty: 5, price: "3.333", taxRate: "0", unitIncl: "3.33", totalExcl: "16.665", totalIncl: "16.65"},
		// 1.99 * 1.24 = 2.4676 rounds to 2.47 before multiplying: 3 * 2.47 = 7.41, not round(7.4028) = 7.40
		{name: "unit rounded before quantity", qty: 3, price: "1.99", taxRate: "24", unitIncl: "2.47", totalExcl: "5.97", totalIncl: "7.41"},
		{name: "half rounds up", qty: 1, price: "0.125", taxRate: "0", unitIncl: "0.13", totalExcl: "0.125", totalIncl: "0.13"},
		{name: "reduced rate", qty: 4, price: "7.95", taxRate: "14", unitIncl: "9.06", totalExcl: "31.80", totalIncl: "36.24"},
		{name: "zero quantity", qty: 0, price: "10", taxRate: "24", unitIncl: "12.40", totalExcl: "0", totalIncl: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.OrderItem{Quantity: tt.qty, UnitPriceVatExcl: dec(tt.price), TaxRate: dec(tt.taxRate)}
			ComputeItem(&item)

			assertDecimal(t, tt.unitIncl, item.UnitPriceVatIncl, "unit incl")
			assertDecimal(t, tt.totalExcl, item.TotalPriceVatExcl, "total excl")
			assertDecimal(t, tt.totalIncl, item.TotalPriceVatIncl, "total incl")
		})
	}
}

func TestSumTotalsIsNotReRounded(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 1, UnitPriceVatExcl: dec("0.333"), TaxRate: dec("0")},
		{Quantity: 2, UnitPriceVatExcl: dec("0.333"), TaxRate: dec("0")},
	}
	for i := range items {
		ComputeItem(&items[i])
	}

	excl, incl := SumTotals(items)
	assertDecimal(t, "0.999", excl)
	assertDecimal(t, "0.99", incl)
}

func TestSumTotalsEmpty(t *testing.T) {
	excl, incl := SumTotals(nil)
	assert.True(t, excl.IsZero())
	assert.True(t, incl.IsZero())
}

func TestCoerceOrZero(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{12, "12"},
		{int64(7), "7"},
		{2.5, "2.5"},
		{"24", "24"},
		{" 10.50 ", "10.5"},
		{"abc", "0"},
		{"", "0"},
		{true, "0"},
		{json.Number("3.14"), "3.14"},
		{dec("9.99"), "9.99"},
		{[]int{1}, "0"},
	}

	for _, tt := range tests {
		assertDecimal(t, tt.want, CoerceOrZero(tt.in), "input %#v", tt.in)
	}
}

func TestLenientNeverFails(t *testing.T) {
	var values []Lenient
	err := json.Unmarshal([]byte(`[1, "2.5", "x", {}, [], true, 1e2]`), &values)
	require.NoError(t, err)
	require.Len(t, values, 7)

	want := []string{"1", "2.5", "0", "0", "0", "0", "100"}
	for i, w := range want {
		assertDecimal(t, w, values[i].Decimal, "index %d", i)
	}
}
