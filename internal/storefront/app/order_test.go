package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

func seededStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	store.products = []domain.Product{
		{ID: "p90", Name: "Air Force", Price: decimal.NewFromInt(90), Category: domain.CategoryShoes, CreatedAt: time.Now()},
		{ID: "p25", Name: "Cap", Price: decimal.NewFromInt(25), Category: domain.CategoryAccessories, CreatedAt: time.Now()},
		{ID: "p-cents", Name: "Socks", Price: decimal.RequireFromString("0.10"), Category: domain.CategoryAccessories, CreatedAt: time.Now()},
	}
	return store
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	locks := app.NewUserLocks()
	carts := app.NewCartService(store, locks)
	orders := app.NewOrderService(store, store, locks, 4)

	_, err := carts.AddItem(ctx, "u1", domain.CartItem{ProductID: "p90", Quantity: 2, Size: "9"})
	require.NoError(t, err)

	items := []domain.CartItem{
		{ProductID: "p90", Quantity: 2, Size: "9"},
		{ProductID: "p25", Quantity: 1},
	}
	order, err := orders.PlaceOrder(ctx, "u1", items, "1 Main St")
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(205)), "total %s", order.TotalAmount)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.PaymentIntentID, "pi_"))
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.Equal(t, items, order.Items)

	cart, err := carts.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderService_TotalIsExact(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	orders := app.NewOrderService(store, store, nil, 0)

	order, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{{ProductID: "p-cents", Quantity: 3}}, "")
	require.NoError(t, err)
	assert.Equal(t, "0.3", order.TotalAmount.String())
}

func TestOrderService_UnknownProductContributesZero(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	orders := app.NewOrderService(store, store, nil, 0)

	order, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{
		{ProductID: "gone", Quantity: 5},
		{ProductID: "p25", Quantity: 2},
	}, "")
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.Len(t, order.Items, 2)
}

func TestOrderService_EmptyOrder(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	orders := app.NewOrderService(store, store, nil, 0)

	order, err := orders.PlaceOrder(ctx, "u1", nil, "")
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Empty(t, order.Items)
}

func TestOrderService_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid quantity", func(t *testing.T) {
		store := seededStore(t)
		orders := app.NewOrderService(store, store, nil, 0)

		_, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{{ProductID: "p25", Quantity: 0}}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, store.orders)
	})

	t.Run("store unavailable while pricing", func(t *testing.T) {
		store := seededStore(t)
		store.productErr = domain.Unavailable("fake", errors.New("boom"))
		orders := app.NewOrderService(store, store, nil, 0)

		_, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{{ProductID: "p25", Quantity: 1}}, "")
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		assert.Empty(t, store.orders)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	orders := app.NewOrderService(store, store, nil, 0)

	first, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{{ProductID: "p25", Quantity: 1}}, "")
	require.NoError(t, err)
	second, err := orders.PlaceOrder(ctx, "u1", []domain.CartItem{{ProductID: "p90", Quantity: 1}}, "")
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, "u2", []domain.CartItem{{ProductID: "p90", Quantity: 1}}, "")
	require.NoError(t, err)

	list, err := orders.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	none, err := orders.ListOrders(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
