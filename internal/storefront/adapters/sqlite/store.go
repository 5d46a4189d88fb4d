// Package sqlite is the default persistence for the storefront.
//
// Each collection is a table keyed by an opaque uuid string. Nested values
// (cart lines, product image lists) are stored as JSON documents, and every
// timestamp is RFC3339 TEXT in UTC.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id              TEXT    PRIMARY KEY,
    email           TEXT    NOT NULL UNIQUE,
    full_name       TEXT    NOT NULL DEFAULT '',
    password_hash   TEXT    NOT NULL,
    created_at      TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT    NOT NULL UNIQUE,
    name            TEXT    NOT NULL,
    description     TEXT    NOT NULL DEFAULT '',
    -- exact decimal string, never a float
    price           TEXT    NOT NULL,
    category        TEXT    NOT NULL,
    images          TEXT    NOT NULL DEFAULT '[]',
    sizes           TEXT    NOT NULL DEFAULT '[]',
    colors          TEXT    NOT NULL DEFAULT '[]',
    stock           INTEGER NOT NULL DEFAULT 0,
    featured        INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_featured ON products(featured);

-- One cart per user. revision is bumped by every write and checked by SaveCart.
CREATE TABLE IF NOT EXISTS carts (
    id              TEXT    PRIMARY KEY,
    user_id         TEXT    NOT NULL UNIQUE,
    items           TEXT    NOT NULL DEFAULT '[]',
    revision        INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    seq                 INTEGER PRIMARY KEY AUTOINCREMENT,
    id                  TEXT    NOT NULL UNIQUE,
    user_id             TEXT    NOT NULL,
    items               TEXT    NOT NULL,
    total_amount        TEXT    NOT NULL,
    status              TEXT    NOT NULL,
    shipping_address    TEXT    NOT NULL DEFAULT '',
    payment_intent_id   TEXT    NOT NULL,
    created_at          TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, seq);
`

var _ app.Store = (*Store)(nil)

// Store implements app.Store on a single SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	store, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection; transactions and plain statements queue on it.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.Unavailable("sqlite: ping", err)
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

func (s *Store) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Unavailable("sqlite: begin", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("sqlite: commit", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed: unique")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
