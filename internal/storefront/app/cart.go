package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// maxCartWriteAttempts bounds how often a read-modify-write is recomputed
// after losing a revision race to another process.
const maxCartWriteAttempts = 3

// CartService owns the read-modify-write cycle of per-user carts. Writes for
// one user are serialized in process and checked against the stored
// revision so concurrent writers from other processes are detected.
type CartService struct {
	carts CartRepo
	locks *UserLocks
	now   func() time.Time
}

// NewCartService builds a CartService. A nil locks gets a private set; pass
// the same UserLocks the OrderService uses so checkout and cart edits exclude
// each other.
func NewCartService(carts CartRepo, locks *UserLocks) *CartService {
	if locks == nil {
		locks = NewUserLocks()
	}
	return &CartService{carts: carts, locks: locks, now: time.Now}
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
func (s *CartService) GetOrCreate(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.carts.CartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return domain.Cart{}, err
	}

	cart = domain.NewCart(uuid.NewString(), userID, s.now().UTC())
	err = s.carts.CreateCart(ctx, cart)
	if err == nil {
		slog.DebugContext(ctx, "cart created", "user_id", userID, "cart_id", cart.ID)
		return cart, nil
	}
	// Someone else created it concurrently: re-get.
	if errors.Is(err, domain.ErrCartExists) {
		return s.carts.CartByUser(ctx, userID)
	}
	return domain.Cart{}, err
}

// AddItem merges item into the user's cart, creating the cart if needed.
func (s *CartService) AddItem(ctx context.Context, userID string, item domain.CartItem) (domain.Cart, error) {
	if err := item.Validate(); err != nil {
		return domain.Cart{}, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.mutate(ctx, userID, s.GetOrCreate, func(c *domain.Cart, now time.Time) error {
		return c.Merge(item, now)
	})
}

// RemoveItem drops every line of productID. It fails with
// domain.ErrCartNotFound if the user never had a cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return domain.Cart{}, fmt.Errorf("product id is required: %w", domain.ErrInvalidInput)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.mutate(ctx, userID, s.carts.CartByUser, func(c *domain.Cart, now time.Time) error {
		c.RemoveProduct(productID, now)
		return nil
	})
}

// mutate loads, applies and saves, recomputing on a lost revision race.
func (s *CartService) mutate(
	ctx context.Context,
	userID string,
	load func(context.Context, string) (domain.Cart, error),
	apply func(*domain.Cart, time.Time) error,
) (domain.Cart, error) {
	for attempt := 1; ; attempt++ {
		cart, err := load(ctx, userID)
		if err != nil {
			return domain.Cart{}, err
		}

		if err := apply(&cart, s.now().UTC()); err != nil {
			return domain.Cart{}, err
		}

		rev, err := s.carts.SaveCart(ctx, cart)
		if err == nil {
			cart.Revision = rev
			return cart, nil
		}
		if !errors.Is(err, domain.ErrRevisionConflict) || attempt == maxCartWriteAttempts {
			return domain.Cart{}, err
		}
		slog.WarnContext(ctx, "cart revision conflict, recomputing",
			"user_id", userID, "attempt", attempt, "revision", cart.Revision)
	}
}
