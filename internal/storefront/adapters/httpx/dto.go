package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
}

// ProductResponse renders money as a JSON number.
type ProductResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
	CreatedAt   string   `json:"created_at"`
}

// CartItemDTO is a cart or order line on the wire.
type CartItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type CartResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// CartMutationResponse wraps the cart returned by add and remove.
type CartMutationResponse struct {
	Message string       `json:"message"`
	Cart    CartResponse `json:"cart"`
}

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	Items           []CartItemDTO `json:"items"`
	ShippingAddress string        `json:"shipping_address"`
}

type OrderResponse struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Items           []CartItemDTO `json:"items"`
	TotalAmount     float64       `json:"total_amount"`
	Status          string        `json:"status"`
	ShippingAddress string        `json:"shipping_address"`
	PaymentIntentID string        `json:"payment_intent_id"`
	CreatedAt       string        `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a machine-readable code and a human message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func mapUser(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    string(p.Category),
		Images:      nonNil(p.Images),
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		Stock:       p.Stock,
		Featured:    p.Featured,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func mapProducts(ps []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = mapProduct(p)
	}
	return out
}

func mapItems(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, len(items))
	for i, it := range items {
		out[i] = CartItemDTO{ProductID: it.ProductID, Quantity: it.Quantity, Size: it.Size, Color: it.Color}
	}
	return out
}

func (d CartItemDTO) toDomain() domain.CartItem {
	return domain.CartItem{ProductID: d.ProductID, Quantity: d.Quantity, Size: d.Size, Color: d.Color}
}

func mapCart(c domain.Cart) CartResponse {
	return CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     mapItems(c.Items),
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func mapOrder(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           mapItems(o.Items),
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       formatTime(o.CreatedAt),
	}
}

func mapOrders(os []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(os))
	for i, o := range os {
		out[i] = mapOrder(o)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
