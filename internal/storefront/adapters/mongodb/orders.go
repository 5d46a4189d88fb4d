package mongodb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcmexdev/storefront/internal/coordinator"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// PlaceOrder inserts the order and then clears the cart. If clearing fails
// the order is deleted again.
func (s *Store) PlaceOrder(ctx context.Context, o domain.Order) error {
	total, err := toDecimal128(o.TotalAmount)
	if err != nil {
		return err
	}
	doc := orderDoc{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           toItemDocs(o.Items),
		TotalAmount:     total,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       formatTime(o.CreatedAt),
	}

	insert := coordinator.FuncStep{
		StepName: "insert_order",
		Do: func(ctx context.Context) error {
			if _, err := s.col(colOrders).InsertOne(ctx, doc); err != nil {
				return domain.Unavailable("mongodb: insert order", err)
			}
			return nil
		},
		Undo: func(ctx context.Context) error {
			_, err := s.col(colOrders).DeleteOne(ctx, bson.M{"id": o.ID})
			return err
		},
	}
	clearCart := coordinator.FuncStep{
		StepName: "clear_cart",
		Do: func(ctx context.Context) error {
			_, err := s.col(colCarts).UpdateOne(ctx,
				bson.M{"user_id": o.UserID},
				bson.M{
					"$set": bson.M{"items": []itemDoc{}, "updated_at": formatTime(o.CreatedAt)},
					"$inc": bson.M{"revision": 1},
				},
			)
			if err != nil {
				return domain.Unavailable("mongodb: clear cart", err)
			}
			return nil
		},
	}

	payload, err := json.Marshal(map[string]any{"order_id": o.ID, "user_id": o.UserID, "lines": len(o.Items)})
	if err != nil {
		return fmt.Errorf("mongodb: encode saga payload: %w", err)
	}

	saga := coordinator.NewOrchestrator(o.ID, s, insert, clearCart).WithPayload(string(payload))
	return saga.Start(ctx)
}

// OrdersByUser lists orders oldest first.
func (s *Store) OrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	cur, err := s.col(colOrders).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, domain.Unavailable("mongodb: list orders", err)
	}

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable("mongodb: list orders", err)
	}

	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
