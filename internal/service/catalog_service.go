package service

import (
	"context"

	"green-basket/internal/model"
	"green-basket/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	products repository.ProductRepository
	catalog  repository.CatalogRepository
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products repository.ProductRepository, catalog repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		products: products,
		catalog:  catalog,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.ProductView, error) {
	return s.products.List(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, data model.ProductCreate) (*model.Product, error) {
	return s.products.Create(ctx, data)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, data model.ProductUpdate) (*model.Product, error) {
	return s.products.Update(ctx, id, data)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// SetCurrentPrice rejects negative amounts before touching the ledger. A zero
// price is allowed; absence of a price is expressed by having no current
// ledger entry, never by a zero amount.
func (s *catalogService) SetCurrentPrice(ctx context.Context, productID int64, price float64) (*model.Price, error) {
	if price < 0 {
		return nil, model.ErrInvalidPrice
	}

	p, err := s.products.SetCurrentPrice(ctx, productID, price)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("product_id", productID).
		Float64("price", price).
		Msg("current price set")

	return p, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, data model.CategoryCreate) (*model.Category, error) {
	return s.catalog.CreateCategory(ctx, data)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, data model.CategoryUpdate) (*model.Category, error) {
	return s.catalog.UpdateCategory(ctx, id, data)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.catalog.DeleteCategory(ctx, id)
}

func (s *catalogService) ListUnits(ctx context.Context) ([]model.Unit, error) {
	return s.catalog.ListUnits(ctx)
}
