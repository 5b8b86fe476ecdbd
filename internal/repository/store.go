package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside
// Transaction every repository handed to fn is bound to the same transaction.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Invoices() InvoiceRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Companies() CompanyRepository   { return NewCompanyRepository(s.db) }
func (s *store) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *store) Customers() CustomerRepository   { return NewCustomerRepository(s.db) }
func (s *store) Products() ProductRepository     { return NewProductRepository(s.db) }
func (s *store) Orders() OrderRepository         { return NewOrderRepository(s.db) }
func (s *store) OrderItems() OrderItemRepository { return NewOrderItemRepository(s.db) }
func (s *store) Invoices() InvoiceRepository     { return NewInvoiceRepository(s.db) }

func (s *store) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
