package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order. New orders are pending.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// Order is immutable once placed. Items are copied by value from the request
// and carry no reference back to the cart.
type Order struct {
	ID              string
	UserID          string
	Items           []CartItem
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress string
	PaymentIntentID string
	CreatedAt       time.Time
}

// LineTotal prices one order line against an authoritative unit price.
func LineTotal(unitPrice decimal.Decimal, item CartItem) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
