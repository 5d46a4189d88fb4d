package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/seed"
)

// CatalogService reads and writes products.
type CatalogService struct {
	products ProductRepo
	now      func() time.Time
}

// NewCatalogService returns a CatalogService backed by products.
func NewCatalogService(products ProductRepo) *CatalogService {
	return &CatalogService{products: products, now: time.Now}
}

// ListProducts returns the products matching filter, capped at MaxListResults.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.products.ListProducts(ctx, filter, MaxListResults)
}

// GetProduct looks a product up by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, fmt.Errorf("product id is required: %w", domain.ErrInvalidInput)
	}
	return s.products.ProductByID(ctx, id)
}

// CreateProduct validates p, assigns its id and creation time and stores it.
func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()

	if err := s.products.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// SeedSampleData loads the sample catalog once. It reports false when the
// catalog already had products and nothing was written.
func (s *CatalogService) SeedSampleData(ctx context.Context) (bool, error) {
	seeded, err := s.products.SeedProducts(ctx, seed.SampleProducts(s.now().UTC()))
	if err != nil {
		return false, err
	}
	if seeded {
		slog.InfoContext(ctx, "sample catalog seeded")
	}
	return seeded, nil
}
