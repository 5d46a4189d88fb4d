package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed catalog sections.
type Category string

const (
	CategoryShoes       Category = "shoes"
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
)

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryShoes, CategoryClothing, CategoryAccessories:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q: %w", s, ErrInvalidInput)
	}
}

// Product is a catalog entry. Price is exact decimal money.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    Category
	Images      []string
	Sizes       []string
	Colors      []string
	Stock       int
	Featured    bool
	CreatedAt   time.Time
}

// Validate checks the fields a client may set.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required: %w", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product price cannot be negative: %w", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product stock cannot be negative: %w", ErrInvalidInput)
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}
	return nil
}

// ProductFilter narrows a catalog listing. Nil fields are not applied.
type ProductFilter struct {
	Category *Category
	Featured *bool
}

// Matches applies the filter to a single product.
func (f ProductFilter) Matches(p Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return true
}
