package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CartByUser returns domain.ErrCartNotFound when the user has no cart.
func (s *Store) CartByUser(ctx context.Context, userID string) (domain.Cart, error) {
	const q = `SELECT id, user_id, items, revision, created_at, updated_at FROM carts WHERE user_id = ?`

	var (
		c                    domain.Cart
		items                string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &items, &c.Revision, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, domain.Unavailable("sqlite: get cart", err)
	}

	if c.Items, err = decodeItems(items); err != nil {
		return domain.Cart{}, err
	}
	if c.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return domain.Cart{}, err
	}
	if c.UpdatedAt, err = parseRFC3339(updatedAt); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// CreateCart relies on the unique user_id column to reject a second cart.
func (s *Store) CreateCart(ctx context.Context, c domain.Cart) error {
	const q = `
		INSERT INTO carts (id, user_id, items, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	items, err := encodeItems(c.Items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, q, c.ID, c.UserID, items, c.Revision, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if isUniqueViolation(err) {
		return domain.ErrCartExists
	}
	if err != nil {
		return domain.Unavailable("sqlite: create cart", err)
	}
	return nil
}

// SaveCart is a compare-and-swap on the revision column.
func (s *Store) SaveCart(ctx context.Context, c domain.Cart) (int64, error) {
	const q = `
		UPDATE carts
		SET    items = ?, updated_at = ?, revision = revision + 1
		WHERE  user_id = ? AND revision = ?`

	items, err := encodeItems(c.Items)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, q, items, formatTime(c.UpdatedAt), c.UserID, c.Revision)
	if err != nil {
		return 0, domain.Unavailable("sqlite: save cart", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.Unavailable("sqlite: save cart", err)
	}
	if n == 0 {
		return 0, domain.ErrRevisionConflict
	}
	return c.Revision + 1, nil
}
