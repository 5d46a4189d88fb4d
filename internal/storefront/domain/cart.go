package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CartItem is a value type. Two items describe the same cart line when they
// agree on product, size and color.
type CartItem struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// SameLine reports whether i and o belong to the same cart line.
func (i CartItem) SameLine(o CartItem) bool {
	return i.ProductID == o.ProductID && i.Size == o.Size && i.Color == o.Color
}

// Validate requires a product id and a positive quantity.
func (i CartItem) Validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return fmt.Errorf("product_id is required: %w", ErrInvalidInput)
	}
	if i.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d: %w", i.Quantity, ErrInvalidInput)
	}
	return nil
}

// Cart is the single per-user cart document. Revision increases on every
// persisted write and guards read-modify-write cycles.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart returns an empty cart at revision zero.
func NewCart(id, userID string, now time.Time) Cart {
	return Cart{
		ID:        id,
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Merge accumulates item into a matching line or appends it as a new one.
// The cart is left untouched when the item is invalid or the accumulated
// quantity would not fit in an int.
func (c *Cart) Merge(item CartItem, now time.Time) error {
	if err := item.Validate(); err != nil {
		return err
	}
	for i := range c.Items {
		if !c.Items[i].SameLine(item) {
			continue
		}
		if c.Items[i].Quantity > math.MaxInt-item.Quantity {
			return fmt.Errorf("quantity of %s would overflow: %w", item.ProductID, ErrInvalidInput)
		}
		c.Items[i].Quantity += item.Quantity
		c.UpdatedAt = now
		return nil
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	return nil
}

// RemoveProduct drops every line for productID regardless of size and color.
func (c *Cart) RemoveProduct(productID string, now time.Time) {
	kept := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.UpdatedAt = now
}

// Clear empties the cart, keeping its id and revision.
func (c *Cart) Clear(now time.Time) {
	c.Items = []CartItem{}
	c.UpdatedAt = now
}
