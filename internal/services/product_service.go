package services

import (
	"context"
	"strings"

	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name             patch.Field[string]          `json:"name"`
	SKU              patch.Field[string]          `json:"sku"`
	UnitPriceVatExcl patch.Field[decimal.Decimal] `json:"unit_price_vat_excl"`
	TaxRate          patch.Field[decimal.Decimal] `json:"tax_rate"`
	StockQuantity    patch.Field[int64]           `json:"stock_quantity"`
}

var maxTaxRate = decimal.NewFromInt(100)

func (in ProductInput) applyTo(p *models.Product) error {
	in.Name.Apply(&p.Name)
	in.SKU.Apply(&p.SKU)
	in.UnitPriceVatExcl.Apply(&p.UnitPriceVatExcl)
	in.TaxRate.Apply(&p.TaxRate)
	in.StockQuantity.Apply(&p.StockQuantity)

	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return invalid("name is required")
	case p.UnitPriceVatExcl.IsNegative():
		return invalid("unit_price_vat_excl must not be negative")
	case p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(maxTaxRate):
		return invalid("tax_rate must be between 0 and 100")
	}
	return nil
}

type ProductService interface {
	CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, actor Actor, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, actor Actor) ([]models.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*models.Product, error) {
	product := &models.Product{CompanyID: actor.CompanyID}
	if err := input.applyTo(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, actor Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, actor Actor) ([]models.Product, error) {
	return s.productRepo.List(ctx, actor.CompanyID)
}

func (s *productService) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.applyTo(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor Actor, id uuid.UUID) error {
	return notFound(s.productRepo.Delete(ctx, actor.CompanyID, id), "product")
}
