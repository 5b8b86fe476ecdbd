package services

import (
	"context"
	"testing"
	"time"

	"invoice_manager/internal/database/dbtest"
	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/pricing"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	store    repository.Store
	company  *models.Company
	customer *models.Customer
	admin    Actor
	user     Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	store := repository.NewStore(db)

	company := &models.Company{
		Name:               "Acme Oy",
		IBAN:               "FI58 1017 1000 0001 22",
		DefaultPaymentDays: 14,
	}
	require.NoError(t, store.Companies().Create(ctx, company))

	customer := &models.Customer{CompanyID: company.ID, Name: "Asiakas Oy", Phone: "040 123 4567"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	return &testEnv{
		db:       db,
		store:    store,
		company:  company,
		customer: customer,
		admin:    Actor{UserID: uuid.New(), CompanyID: company.ID, Role: models.RoleAdmin},
		user:     Actor{UserID: uuid.New(), CompanyID: company.ID, Role: models.RoleUser},
	}
}

func lenient(s string) patch.Field[pricing.Lenient] {
	return patch.Set(pricing.LenientOf(decimal.RequireFromString(s)))
}

func newItem(quantity, price, taxRate string) pricing.ItemInput {
	return pricing.ItemInput{
		Quantity:         lenient(quantity),
		UnitPriceVatExcl: lenient(price),
		TaxRate:          lenient(taxRate),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, phone, message string) error {
	args := m.Called(ctx, phone, message)
	return args.Error(0)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, name, ttl)
	release, _ := args.Get(0).(func())
	return release, args.Error(1)
}
