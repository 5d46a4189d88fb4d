// Package mongodb stores the storefront in MongoDB. Each aggregate has its
// own collection, documents are keyed by a uuid "id" field with a unique
// index, money is Decimal128 and timestamps are RFC3339 strings.
//
// A standalone server has no multi-document transactions, so PlaceOrder is
// a two step saga. If the process dies between inserting the order and
// clearing the cart, the order exists and the cart keeps its items; the
// saga log records the interrupted run and Pending reports it.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcmexdev/storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

const (
	colUsers    = "users"
	colProducts = "products"
	colCarts    = "carts"
	colOrders   = "orders"
	colSeeds    = "seeds"
	colSagaLogs = "saga_logs"

	connectTimeout = 30 * time.Second
)

var (
	_ app.Store          = (*Store)(nil)
	_ sagalog.Repository = (*Store)(nil)
)

// Store implements app.Store and sagalog.Repository on one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects, pings and makes sure the indexes exist.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return domain.Unavailable("mongodb: ping", err)
	}
	return nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		colProducts: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "featured", Value: 1}}},
		},
		colCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		},
		colOrders: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}}},
		},
		colSagaLogs: {
			{Keys: bson.D{{Key: "saga_id", Value: 1}, {Key: "_id", Value: 1}}},
		},
	}
	for col, models := range specs {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb: create indexes on %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// findOne decodes a single document, mapping no result to notFound.
func findOne(ctx context.Context, c *mongo.Collection, filter any, out any, notFound error, op string) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	if err != nil {
		return domain.Unavailable(op, err)
	}
	return nil
}
