package app_test

import (
	"context"
	"sync"

	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// memStore is an in-memory app.Store with the same CAS semantics as the
// real adapters.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.Credentials
	products []domain.Product
	carts    map[string]domain.Cart
	orders   []domain.Order

	// productErr, when set, is returned by ProductByID.
	productErr error
}

var _ app.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]domain.Credentials),
		carts: make(map[string]domain.Cart),
	}
}

func (m *memStore) CreateUser(_ context.Context, cred domain.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.users {
		if c.User.Email == cred.User.Email {
			return domain.ErrEmailTaken
		}
	}
	m.users[cred.User.ID] = cred
	return nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (domain.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.users {
		if c.User.Email == email {
			return c, nil
		}
	}
	return domain.Credentials{}, domain.ErrUserNotFound
}

func (m *memStore) UserByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return c.User, nil
}

func (m *memStore) CreateProduct(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, p)
	return nil
}

func (m *memStore) ProductByID(_ context.Context, id string) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.productErr != nil {
		return domain.Product{}, m.productErr
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (m *memStore) ListProducts(_ context.Context, filter domain.ProductFilter, limit int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0)
	for _, p := range m.products {
		if len(out) == limit {
			break
		}
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SeedProducts(_ context.Context, products []domain.Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.products) > 0 {
		return false, nil
	}
	m.products = append(m.products, products...)
	return true, nil
}

func (m *memStore) CartByUser(_ context.Context, userID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	c.Items = append([]domain.CartItem{}, c.Items...)
	return c, nil
}

func (m *memStore) CreateCart(_ context.Context, c domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[c.UserID]; ok {
		return domain.ErrCartExists
	}
	m.carts[c.UserID] = c
	return nil
}

func (m *memStore) SaveCart(_ context.Context, c domain.Cart) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.carts[c.UserID]
	if !ok || cur.Revision != c.Revision {
		return 0, domain.ErrRevisionConflict
	}
	cur.Items = append([]domain.CartItem{}, c.Items...)
	cur.UpdatedAt = c.UpdatedAt
	cur.Revision++
	m.carts[c.UserID] = cur
	return cur.Revision, nil
}

func (m *memStore) PlaceOrder(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	if c, ok := m.carts[o.UserID]; ok {
		c.Clear(o.CreatedAt)
		c.Revision++
		m.carts[o.UserID] = c
	}
	return nil
}

func (m *memStore) OrdersByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

// racingCarts bumps the stored revision behind the caller's back for the
// first n saves, simulating a writer in another process.
type racingCarts struct {
	*memStore
	mu    sync.Mutex
	races int
	saves int
}

func (r *racingCarts) SaveCart(ctx context.Context, c domain.Cart) (int64, error) {
	r.mu.Lock()
	r.saves++
	race := r.races > 0
	if race {
		r.races--
	}
	r.mu.Unlock()

	if race {
		stored, err := r.memStore.CartByUser(ctx, c.UserID)
		if err != nil {
			return 0, err
		}
		stored.Items = append(stored.Items, domain.CartItem{ProductID: "other-process", Quantity: 1})
		if _, err := r.memStore.SaveCart(ctx, stored); err != nil {
			return 0, err
		}
	}
	return r.memStore.SaveCart(ctx, c)
}
