package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/adapters/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/seed"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	user := domain.User{ID: uuid.NewString(), Email: "ana@example.com", FullName: "Ana", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateUser(ctx, domain.Credentials{User: user, PasswordHash: "hash"}))

	t.Run("duplicate email", func(t *testing.T) {
		dup := domain.User{ID: uuid.NewString(), Email: "ana@example.com", CreatedAt: time.Now()}
		err := store.CreateUser(ctx, domain.Credentials{User: dup, PasswordHash: "x"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("by email carries hash", func(t *testing.T) {
		cred, err := store.UserByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, cred.User.ID)
		assert.Equal(t, "hash", cred.PasswordHash)
		assert.True(t, user.CreatedAt.Equal(cred.User.CreatedAt))
	})

	t.Run("by id", func(t *testing.T) {
		got, err := store.UserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.FullName)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.UserByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		_, err = store.UserByEmail(ctx, "nope@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	seeded, err := store.SeedProducts(ctx, seed.SampleProducts(time.Now()))
	require.NoError(t, err)
	require.True(t, seeded)

	again, err := store.SeedProducts(ctx, seed.SampleProducts(time.Now()))
	require.NoError(t, err)
	assert.False(t, again)

	all, err := store.ListProducts(ctx, domain.ProductFilter{}, 1000)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "90", all[0].Price.String())

	featured := true
	got, err := store.ListProducts(ctx, domain.ProductFilter{Featured: &featured}, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	shoes := domain.CategoryShoes
	got, err = store.ListProducts(ctx, domain.ProductFilter{Category: &shoes, Featured: &featured}, 1000)
	require.NoError(t, err)
	for _, p := range got {
		assert.Equal(t, domain.CategoryShoes, p.Category)
		assert.True(t, p.Featured)
	}

	limited, err := store.ListProducts(ctx, domain.ProductFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	one, err := store.ProductByID(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, all[1].Name, one.Name)
	assert.Equal(t, all[1].Sizes, one.Sizes)

	_, err = store.ProductByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateProductKeepsExactPrice(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      "Socks",
		Price:     decimal.RequireFromString("0.10"),
		Category:  domain.CategoryAccessories,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateProduct(ctx, p))

	got, err := store.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("0.1")))
	assert.Empty(t, got.Images)
	assert.NotNil(t, got.Images)
}

func TestCartCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.CartByUser(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	cart := domain.NewCart(uuid.NewString(), "u1", time.Now())
	require.NoError(t, store.CreateCart(ctx, cart))

	err = store.CreateCart(ctx, domain.NewCart(uuid.NewString(), "u1", time.Now()))
	assert.ErrorIs(t, err, domain.ErrCartExists)

	require.NoError(t, cart.Merge(domain.CartItem{ProductID: "p1", Quantity: 2, Size: "M"}, time.Now()))
	rev, err := store.SaveCart(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	// Stale revision loses.
	_, err = store.SaveCart(ctx, cart)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	stored, err := store.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Revision)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, domain.CartItem{ProductID: "p1", Quantity: 2, Size: "M"}, stored.Items[0])
}

func TestPlaceOrderClearsCart(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	cart := domain.NewCart(uuid.NewString(), "u1", time.Now())
	require.NoError(t, cart.Merge(domain.CartItem{ProductID: "p1", Quantity: 1}, time.Now()))
	require.NoError(t, store.CreateCart(ctx, cart))

	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          "u1",
		Items:           []domain.CartItem{{ProductID: "p1", Quantity: 1}},
		TotalAmount:     decimal.RequireFromString("205.50"),
		Status:          domain.StatusPending,
		ShippingAddress: "1 Main St",
		PaymentIntentID: "pi_x",
		CreatedAt:       time.Now(),
	}
	require.NoError(t, store.PlaceOrder(ctx, order))

	stored, err := store.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
	assert.Equal(t, int64(1), stored.Revision)

	second := order
	second.ID = uuid.NewString()
	require.NoError(t, store.PlaceOrder(ctx, second))

	orders, err := store.OrdersByUser(ctx, "u1", 1000)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.True(t, orders[0].TotalAmount.Equal(order.TotalAmount))
	assert.Equal(t, domain.StatusPending, orders[0].Status)

	none, err := store.OrdersByUser(ctx, "someone-else", 1000)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlaceOrderWithoutCart(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	order := domain.Order{
		ID: uuid.NewString(), UserID: "u2", Items: []domain.CartItem{},
		TotalAmount: decimal.Zero, Status: domain.StatusPending, PaymentIntentID: "pi_y", CreatedAt: time.Now(),
	}
	require.NoError(t, store.PlaceOrder(ctx, order))

	_, err := store.CartByUser(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}
