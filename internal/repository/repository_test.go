package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoice_manager/internal/database/dbtest"
	"invoice_manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (Store, *models.Company) {
	t.Helper()
	s := NewStore(dbtest.New(t))
	company := &models.Company{Name: "Acme Oy", IBAN: "FI2112345600000785"}
	require.NoError(t, s.Companies().Create(context.Background(), company))
	return s, company
}

func seedOrder(t *testing.T, s Store, companyID uuid.UUID, quantities ...int64) *models.Order {
	t.Helper()
	order := &models.Order{
		CompanyID:  companyID,
		CustomerID: uuid.New(),
		CreatedBy:  uuid.New(),
		OrderDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, q := range quantities {
		order.Items = append(order.Items, models.OrderItem{
			Quantity:         q,
			UnitPriceVatExcl: decimal.NewFromInt(10),
			TaxRate:          decimal.NewFromInt(24),
		})
	}
	require.NoError(t, s.Orders().Create(context.Background(), order))
	return order
}

func TestReserveInvoiceNumberIncrements(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)

	first, err := s.Companies().ReserveInvoiceNumber(ctx, company.ID)
	require.NoError(t, err)
	second, err := s.Companies().ReserveInvoiceNumber(ctx, company.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), first)
	assert.Equal(t, int64(1001), second)
}

func TestReserveInvoiceNumberRollsBack(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		_, err := tx.Companies().ReserveInvoiceNumber(ctx, company.ID)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	number, err := s.Companies().ReserveInvoiceNumber(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), number)
}

func TestOrderIsScopedToCompany(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	order := seedOrder(t, s, company.ID, 1, 2)

	got, err := s.Orders().GetByID(ctx, company.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	_, err = s.Orders().GetByID(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.Orders().LockByID(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderListFilters(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	first := seedOrder(t, s, company.ID, 1)
	seedOrder(t, s, company.ID, 1)
	seedOrder(t, s, uuid.New(), 1)

	all, err := s.Orders().List(ctx, company.ID, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.Orders().List(ctx, company.ID, OrderFilter{CreatedBy: &first.CreatedBy})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestUpdateHeaderLeavesItems(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	order := seedOrder(t, s, company.ID, 1, 2)

	order.ExtraInfo = "deliver on monday"
	order.TotalAmountVatExcl = decimal.RequireFromString("30")
	order.Items = nil
	require.NoError(t, s.Orders().UpdateHeader(ctx, order))

	got, err := s.Orders().GetByID(ctx, company.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "deliver on monday", got.ExtraInfo)
	assert.True(t, got.TotalAmountVatExcl.Equal(decimal.NewFromInt(30)))
	assert.Len(t, got.Items, 2)
}

func TestOrderItemOperations(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	order := seedOrder(t, s, company.ID, 1, 2, 3)
	items := s.OrderItems()

	existing, err := items.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, existing, 3)

	require.NoError(t, items.DeleteByIDs(ctx, order.ID, []uuid.UUID{existing[0].ID}))

	changed := existing[1]
	changed.Quantity = 7
	require.NoError(t, items.Update(ctx, &changed))

	require.NoError(t, items.Create(ctx, []models.OrderItem{{OrderID: order.ID, Quantity: 4}}))
	require.NoError(t, items.Create(ctx, nil))

	after, err := items.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, after, 3)

	quantities := map[uuid.UUID]int64{}
	for _, item := range after {
		quantities[item.ID] = item.Quantity
	}
	assert.NotContains(t, quantities, existing[0].ID)
	assert.Equal(t, int64(7), quantities[existing[1].ID])
}

func TestOrderItemUpdateChecksOwningOrder(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	order := seedOrder(t, s, company.ID, 1)

	item := order.Items[0]
	item.OrderID = uuid.New()
	err := s.OrderItems().Update(ctx, &item)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)
	order := seedOrder(t, s, company.ID, 1, 2)

	require.NoError(t, s.Orders().Delete(ctx, company.ID, order.ID))

	_, err := s.Orders().GetByID(ctx, company.ID, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	remaining, err := s.OrderItems().GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, s.Orders().Delete(ctx, company.ID, order.ID), gorm.ErrRecordNotFound)
}

func TestInvoiceNumberIsUniquePerCompany(t *testing.T) {
	ctx := context.Background()
	s, company := newTestStore(t)

	invoice := func() *models.Invoice {
		return &models.Invoice{
			CompanyID:     company.ID,
			OrderID:       uuid.New(),
			CustomerID:    uuid.New(),
			InvoiceNumber: 1000,
			Reference:     "10003",
		}
	}
	require.NoError(t, s.Invoices().Create(ctx, invoice()))
	assert.Error(t, s.Invoices().Create(ctx, invoice()))

	listed, err := s.Invoices().List(ctx, company.ID, InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
