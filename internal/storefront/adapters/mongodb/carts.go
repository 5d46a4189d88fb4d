package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CartByUser returns domain.ErrCartNotFound when the user has no cart.
func (s *Store) CartByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var doc cartDoc
	if err := findOne(ctx, s.col(colCarts), bson.M{"user_id": userID}, &doc, domain.ErrCartNotFound, "mongodb: find cart"); err != nil {
		return domain.Cart{}, err
	}
	return doc.toDomain()
}

// CreateCart relies on the unique user_id index to reject a second cart.
func (s *Store) CreateCart(ctx context.Context, c domain.Cart) error {
	doc := cartDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     toItemDocs(c.Items),
		Revision:  c.Revision,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
	_, err := s.col(colCarts).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrCartExists
	}
	if err != nil {
		return domain.Unavailable("mongodb: insert cart", err)
	}
	return nil
}

// SaveCart updates the cart only while its stored revision matches.
func (s *Store) SaveCart(ctx context.Context, c domain.Cart) (int64, error) {
	filter := bson.M{"user_id": c.UserID, "revision": c.Revision}
	update := bson.M{
		"$set": bson.M{"items": toItemDocs(c.Items), "updated_at": formatTime(c.UpdatedAt)},
		"$inc": bson.M{"revision": 1},
	}

	res, err := s.col(colCarts).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, domain.Unavailable("mongodb: save cart", err)
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrRevisionConflict
	}
	return c.Revision + 1, nil
}
