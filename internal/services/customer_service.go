package services

import (
	"context"
	"strings"

	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
)

type CustomerInput struct {
	Name       patch.Field[string] `json:"name"`
	Email      patch.Field[string] `json:"email"`
	Phone      patch.Field[string] `json:"phone"`
	Address    patch.Field[string] `json:"address"`
	BusinessID patch.Field[string] `json:"business_id"`
}

func (in CustomerInput) applyTo(c *models.Customer) error {
	in.Name.Apply(&c.Name)
	in.Email.Apply(&c.Email)
	in.Phone.Apply(&c.Phone)
	in.Address.Apply(&c.Address)
	in.BusinessID.Apply(&c.BusinessID)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name is required")
	}
	return nil
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, actor Actor, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, actor Actor) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, actor Actor, id uuid.UUID, input CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, actor Actor, id uuid.UUID) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{CompanyID: actor.CompanyID}
	if err := input.applyTo(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, actor Actor, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, actor Actor) ([]models.Customer, error) {
	return s.customerRepo.List(ctx, actor.CompanyID)
}

func (s *customerService) UpdateCustomer(ctx context.Context, actor Actor, id uuid.UUID, input CustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.applyTo(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, actor Actor, id uuid.UUID) error {
	return notFound(s.customerRepo.Delete(ctx, actor.CompanyID, id), "customer")
}
