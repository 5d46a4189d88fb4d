package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// PlaceOrder inserts the order and resets the user's cart in one transaction.
// A user without a cart simply gets the order.
func (s *Store) PlaceOrder(ctx context.Context, o domain.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}

	return s.execTx(ctx, func(tx *sql.Tx) error {
		const insert = `
			INSERT INTO orders
				(id, user_id, items, total_amount, status, shipping_address, payment_intent_id, created_at)
			VALUES
				(?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.ExecContext(ctx, insert,
			o.ID, o.UserID, items, o.TotalAmount.String(), string(o.Status),
			o.ShippingAddress, o.PaymentIntentID, formatTime(o.CreatedAt),
		)
		if err != nil {
			return domain.Unavailable(fmt.Sprintf("sqlite: insert order %q", o.ID), err)
		}

		const reset = `
			UPDATE carts
			SET    items = '[]', updated_at = ?, revision = revision + 1
			WHERE  user_id = ?`

		if _, err := tx.ExecContext(ctx, reset, formatTime(o.CreatedAt), o.UserID); err != nil {
			return domain.Unavailable("sqlite: clear cart", err)
		}
		return nil
	})
}

// OrdersByUser lists orders oldest first.
func (s *Store) OrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	const q = `
		SELECT id, user_id, items, total_amount, status, shipping_address, payment_intent_id, created_at
		FROM   orders
		WHERE  user_id = ?
		ORDER  BY seq
		LIMIT  ?`

	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, domain.Unavailable("sqlite: list orders", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o                    domain.Order
			items, total, status string
			createdAt            string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &items, &total, &status,
			&o.ShippingAddress, &o.PaymentIntentID, &createdAt); err != nil {
			return nil, domain.Unavailable("sqlite: scan order", err)
		}
		if o.Items, err = decodeItems(items); err != nil {
			return nil, err
		}
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("sqlite: order %s total %q: %w", o.ID, total, err)
		}
		o.Status = domain.OrderStatus(status)
		if o.CreatedAt, err = parseRFC3339(createdAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("sqlite: list orders", err)
	}
	return out, nil
}
