package app

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// MaxListResults caps every listing; there is no pagination cursor.
const MaxListResults = 1000

// UserRepo persists accounts and their password hashes.
type UserRepo interface {
	// CreateUser fails with domain.ErrEmailTaken when the email is already present.
	CreateUser(ctx context.Context, cred domain.Credentials) error
	// UserByEmail and UserByID return domain.ErrUserNotFound for unknown users.
	UserByEmail(ctx context.Context, email string) (domain.Credentials, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// ProductRepo is the catalog. Listings are ordered by insertion.
type ProductRepo interface {
	CreateProduct(ctx context.Context, p domain.Product) error
	// ProductByID returns domain.ErrProductNotFound for an unknown id.
	ProductByID(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter, limit int) ([]domain.Product, error)
	// SeedProducts inserts products only if the catalog is empty and reports
	// whether it did.
	SeedProducts(ctx context.Context, products []domain.Product) (bool, error)
}

// CartRepo holds at most one cart per user.
type CartRepo interface {
	// CartByUser returns domain.ErrCartNotFound when the user has no cart.
	CartByUser(ctx context.Context, userID string) (domain.Cart, error)
	// CreateCart inserts a fresh cart. It returns an error wrapping
	// domain.ErrConflict if the user already has one.
	CreateCart(ctx context.Context, cart domain.Cart) error
	// SaveCart replaces items and updated_at if the stored revision still
	// equals cart.Revision, and returns the new revision. Otherwise it
	// returns domain.ErrRevisionConflict.
	SaveCart(ctx context.Context, cart domain.Cart) (int64, error)
}

// OrderRepo records placed orders.
type OrderRepo interface {
	// PlaceOrder records the order and empties the user's cart as one unit.
	PlaceOrder(ctx context.Context, order domain.Order) error
	// OrdersByUser lists the user's orders oldest first, up to limit.
	OrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// Store is the process-wide persistence handle. It is opened once in main and
// handed to each service.
type Store interface {
	UserRepo
	ProductRepo
	CartRepo
	OrderRepo
	Ping(ctx context.Context) error
	Close() error
}
