package mongodb

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

const sampleCatalogSeed = "sample-catalog"

// CreateProduct inserts p into the products collection.
func (s *Store) CreateProduct(ctx context.Context, p domain.Product) error {
	doc, err := toProductDoc(p)
	if err != nil {
		return err
	}
	if _, err := s.col(colProducts).InsertOne(ctx, doc); err != nil {
		return domain.Unavailable("mongodb: insert product", err)
	}
	return nil
}

// ProductByID returns domain.ErrProductNotFound for an unknown id.
func (s *Store) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	var doc productDoc
	if err := findOne(ctx, s.col(colProducts), bson.M{"id": id}, &doc, domain.ErrProductNotFound, "mongodb: find product"); err != nil {
		return domain.Product{}, err
	}
	return doc.toDomain()
}

// ListProducts returns at most limit products in insertion order.
func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter, limit int) ([]domain.Product, error) {
	q := bson.M{}
	if filter.Category != nil {
		q["category"] = string(*filter.Category)
	}
	if filter.Featured != nil {
		q["featured"] = *filter.Featured
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	cur, err := s.col(colProducts).Find(ctx, q, opts)
	if err != nil {
		return nil, domain.Unavailable("mongodb: list products", err)
	}

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable("mongodb: list products", err)
	}

	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SeedProducts claims a marker document before inserting, so concurrent
// seeds write the catalog at most once. A failed insert releases the marker.
func (s *Store) SeedProducts(ctx context.Context, products []domain.Product) (bool, error) {
	n, err := s.col(colProducts).CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, domain.Unavailable("mongodb: count products", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = s.col(colSeeds).InsertOne(ctx, bson.M{"_id": sampleCatalogSeed, "at": formatTime(time.Now())})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, domain.Unavailable("mongodb: claim seed", err)
	}

	docs := make([]any, 0, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		doc, err := toProductDoc(p)
		if err != nil {
			s.releaseSeed(ctx, nil)
			return false, err
		}
		docs = append(docs, doc)
		ids = append(ids, p.ID)
	}
	if _, err := s.col(colProducts).InsertMany(ctx, docs); err != nil {
		s.releaseSeed(ctx, ids)
		return false, domain.Unavailable("mongodb: insert sample products", err)
	}
	return true, nil
}

// releaseSeed undoes a failed seed: whatever part of the batch landed is
// removed and the marker is freed so the next call seeds again.
func (s *Store) releaseSeed(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	if len(ids) > 0 {
		if _, err := s.col(colProducts).DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
			slog.ErrorContext(ctx, "failed to remove partial sample products", "error", err)
		}
	}
	if _, err := s.col(colSeeds).DeleteOne(ctx, bson.M{"_id": sampleCatalogSeed}); err != nil {
		slog.ErrorContext(ctx, "failed to release seed marker", "seed", sampleCatalogSeed, "error", err)
	}
}
