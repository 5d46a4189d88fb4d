package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

const tracerName = "github.com/jcmexdev/storefront/internal/storefront/app"

// OrderService prices and places orders and lists order history.
type OrderService struct {
	products ProductRepo
	orders   OrderRepo
	locks    *UserLocks

	maxConcurrent int
	now           func() time.Time
}

// NewOrderService shares locks with the CartService so that clearing a cart
// never interleaves with an in-process cart mutation.
func NewOrderService(products ProductRepo, orders OrderRepo, locks *UserLocks, maxConcurrent int) *OrderService {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if locks == nil {
		locks = NewUserLocks()
	}
	return &OrderService{
		products:      products,
		orders:        orders,
		locks:         locks,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// PlaceOrder prices items from the catalog, records a pending order and
// empties the user's cart. Items whose product no longer exists add nothing
// to the total.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []domain.CartItem, shippingAddress string) (domain.Order, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "app.PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("order.lines", len(items)))

	order, err := s.placeOrder(ctx, userID, items, shippingAddress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, userID string, items []domain.CartItem, shippingAddress string) (domain.Order, error) {
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return domain.Order{}, fmt.Errorf("item %d: %w", i, err)
		}
	}

	total, err := s.total(ctx, items)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           append(make([]domain.CartItem, 0, len(items)), items...),
		TotalAmount:     total,
		Status:          domain.StatusPending,
		ShippingAddress: shippingAddress,
		PaymentIntentID: "pi_" + uuid.NewString(),
		CreatedAt:       s.now().UTC(),
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID, "user_id", userID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

func (s *OrderService) total(ctx context.Context, items []domain.CartItem) (decimal.Decimal, error) {
	lines := make([]decimal.Decimal, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]
			product, err := s.products.ProductByID(gctx, it.ProductID)
			if errors.Is(err, domain.ErrProductNotFound) {
				slog.WarnContext(gctx, "order line references unknown product", "product_id", it.ProductID)
				lines[idx] = decimal.Zero
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve product %s: %w", it.ProductID, err)
			}
			lines[idx] = domain.LineTotal(product.Price, it)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, lines...), nil
}

// ListOrders returns the user's orders, capped at MaxListResults.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.OrdersByUser(ctx, userID, MaxListResults)
}
