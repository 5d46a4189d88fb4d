package app_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

func TestCatalogService_Seed(t *testing.T) {
	ctx := context.Background()
	svc := app.NewCatalogService(newMemStore())

	seeded, err := svc.SeedSampleData(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = svc.SeedSampleData(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	all, err := svc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestCatalogService_Filters(t *testing.T) {
	ctx := context.Background()
	svc := app.NewCatalogService(newMemStore())
	_, err := svc.SeedSampleData(ctx)
	require.NoError(t, err)

	shoes := domain.CategoryShoes
	list, err := svc.ListProducts(ctx, domain.ProductFilter{Category: &shoes})
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for _, p := range list {
		assert.Equal(t, domain.CategoryShoes, p.Category)
	}

	notFeatured := false
	list, err = svc.ListProducts(ctx, domain.ProductFilter{Featured: &notFeatured})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCatalogService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := app.NewCatalogService(newMemStore())

	created, err := svc.CreateProduct(ctx, domain.Product{
		Name:     "  Tote  ",
		Price:    decimal.RequireFromString("19.99"),
		Category: domain.CategoryAccessories,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Tote", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.CreateProduct(ctx, domain.Product{Name: "Hat", Category: "hats"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
