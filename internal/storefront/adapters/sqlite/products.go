package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

const productColumns = `id, name, description, price, category, images, sizes, colors, stock, featured, created_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateProduct inserts p. List fields are stored as JSON arrays.
func (s *Store) CreateProduct(ctx context.Context, p domain.Product) error {
	return insertProduct(ctx, s.db, p)
}

func insertProduct(ctx context.Context, db execer, p domain.Product) error {
	images, err := encodeStrings(p.Images)
	if err != nil {
		return err
	}
	sizes, err := encodeStrings(p.Sizes)
	if err != nil {
		return err
	}
	colors, err := encodeStrings(p.Colors)
	if err != nil {
		return err
	}

	q := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price.String(), string(p.Category),
		images, sizes, colors, p.Stock, boolToInt(p.Featured), formatTime(p.CreatedAt),
	)
	if err != nil {
		return domain.Unavailable(fmt.Sprintf("sqlite: insert product %q", p.ID), err)
	}
	return nil
}

// ProductByID returns domain.ErrProductNotFound for an unknown id.
func (s *Store) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := scanProduct(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

// ListProducts filters in SQL and returns at most limit products in
// insertion order.
func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter, limit int) ([]domain.Product, error) {
	var where []string
	var args []any
	if filter.Category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, boolToInt(*filter.Featured))
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.Unavailable("sqlite: list products", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("sqlite: list products", err)
	}
	return out, nil
}

// SeedProducts checks emptiness and inserts inside one transaction, so two
// concurrent seeds cannot both write.
func (s *Store) SeedProducts(ctx context.Context, products []domain.Product) (bool, error) {
	seeded := false
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
			return domain.Unavailable("sqlite: count products", err)
		}
		if count > 0 {
			return nil
		}
		for _, p := range products {
			if err := insertProduct(ctx, tx, p); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

func scanProduct(row scanner) (domain.Product, error) {
	var (
		p                     domain.Product
		price, category       string
		images, sizes, colors string
		featured              int
		createdAt             string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &category,
		&images, &sizes, &colors, &p.Stock, &featured, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, err
	}
	if err != nil {
		return domain.Product{}, domain.Unavailable("sqlite: scan product", err)
	}

	if p.Price, err = decimal.NewFromString(price); err != nil {
		return domain.Product{}, fmt.Errorf("sqlite: product %s price %q: %w", p.ID, price, err)
	}
	p.Category = domain.Category(category)
	p.Featured = featured != 0
	if p.Images, err = decodeStrings(images); err != nil {
		return domain.Product{}, err
	}
	if p.Sizes, err = decodeStrings(sizes); err != nil {
		return domain.Product{}, err
	}
	if p.Colors, err = decodeStrings(colors); err != nil {
		return domain.Product{}, err
	}
	if p.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
