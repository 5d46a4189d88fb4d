package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

type userDoc struct {
	ID           string `bson:"id"`
	Email        string `bson:"email"`
	FullName     string `bson:"full_name"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    string `bson:"created_at"`
}

type productDoc struct {
	ID          string               `bson:"id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	Images      []string             `bson:"images"`
	Sizes       []string             `bson:"sizes"`
	Colors      []string             `bson:"colors"`
	Stock       int                  `bson:"stock"`
	Featured    bool                 `bson:"featured"`
	CreatedAt   string               `bson:"created_at"`
}

type itemDoc struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
	Size      string `bson:"size"`
	Color     string `bson:"color"`
}

type cartDoc struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	Items     []itemDoc `bson:"items"`
	Revision  int64     `bson:"revision"`
	CreatedAt string    `bson:"created_at"`
	UpdatedAt string    `bson:"updated_at"`
}

type orderDoc struct {
	ID              string               `bson:"id"`
	UserID          string               `bson:"user_id"`
	Items           []itemDoc            `bson:"items"`
	TotalAmount     primitive.Decimal128 `bson:"total_amount"`
	Status          string               `bson:"status"`
	ShippingAddress string               `bson:"shipping_address"`
	PaymentIntentID string               `bson:"payment_intent_id"`
	CreatedAt       string               `bson:"created_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("mongodb: parse time %q: %w", s, err)
	}
	return t, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("mongodb: encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("mongodb: decode decimal %s: %w", v, err)
	}
	return d, nil
}

func toItemDocs(items []domain.CartItem) []itemDoc {
	out := make([]itemDoc, len(items))
	for i, it := range items {
		out[i] = itemDoc{ProductID: it.ProductID, Quantity: it.Quantity, Size: it.Size, Color: it.Color}
	}
	return out
}

func fromItemDocs(docs []itemDoc) []domain.CartItem {
	out := make([]domain.CartItem, len(docs))
	for i, d := range docs {
		out[i] = domain.CartItem{ProductID: d.ProductID, Quantity: d.Quantity, Size: d.Size, Color: d.Color}
	}
	return out
}

func toProductDoc(p domain.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Category:    string(p.Category),
		Images:      nonNil(p.Images),
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		Stock:       p.Stock,
		Featured:    p.Featured,
		CreatedAt:   formatTime(p.CreatedAt),
	}, nil
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    domain.Category(d.Category),
		Images:      nonNil(d.Images),
		Sizes:       nonNil(d.Sizes),
		Colors:      nonNil(d.Colors),
		Stock:       d.Stock,
		Featured:    d.Featured,
		CreatedAt:   created,
	}, nil
}

func (d cartDoc) toDomain() (domain.Cart, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.Cart{}, err
	}
	updated, err := parseTime(d.UpdatedAt)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{
		ID:        d.ID,
		UserID:    d.UserID,
		Items:     fromItemDocs(d.Items),
		Revision:  d.Revision,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func (d orderDoc) toDomain() (domain.Order, error) {
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:              d.ID,
		UserID:          d.UserID,
		Items:           fromItemDocs(d.Items),
		TotalAmount:     total,
		Status:          domain.OrderStatus(d.Status),
		ShippingAddress: d.ShippingAddress,
		PaymentIntentID: d.PaymentIntentID,
		CreatedAt:       created,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
