package services

import (
	"context"
	"testing"

	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCustomerService(repository.NewCustomerRepository(env.db))
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, env.user, CustomerInput{Name: patch.Set("  ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.CreateCustomer(ctx, env.user, CustomerInput{
		Name:  patch.Set("Kauppa Oy"),
		Phone: patch.Set("0401234567"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, env.user, created.ID, CustomerInput{Email: patch.Set("kauppa@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Kauppa Oy", updated.Name)
	assert.Equal(t, "0401234567", updated.Phone)
	assert.Equal(t, "kauppa@example.com", updated.Email)

	foreign := Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.GetCustomer(ctx, foreign, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, foreign, created.ID), ErrNotFound)

	list, err := svc.ListCustomers(ctx, env.user)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.DeleteCustomer(ctx, env.user, created.ID))
	_, err = svc.GetCustomer(ctx, env.user, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProductService(repository.NewProductRepository(env.db))
	ctx := context.Background()

	tests := []struct {
		name  string
		input ProductInput
	}{
		{"missing name", ProductInput{}},
		{"negative price", ProductInput{Name: patch.Set("Ruuvi"), UnitPriceVatExcl: patch.Set(decimal.NewFromInt(-1))}},
		{"tax above 100", ProductInput{Name: patch.Set("Ruuvi"), TaxRate: patch.Set(decimal.NewFromInt(101))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, env.user, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	product, err := svc.CreateProduct(ctx, env.user, ProductInput{
		Name:             patch.Set("Ruuvi"),
		UnitPriceVatExcl: patch.Set(decimal.RequireFromString("0.25")),
		TaxRate:          patch.Set(decimal.NewFromInt(24)),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, env.user, product.ID, ProductInput{StockQuantity: patch.Set(int64(500))})
	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.StockQuantity)
	assertDecimal(t, "0.25", updated.UnitPriceVatExcl)

	got, err := svc.GetProduct(ctx, env.user, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ruuvi", got.Name)

	require.NoError(t, svc.DeleteProduct(ctx, env.admin, product.ID))
	list, err := svc.ListProducts(ctx, env.user)
	require.NoError(t, err)
	assert.Empty(t, list)
}
