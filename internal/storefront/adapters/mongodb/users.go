package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CreateUser maps a duplicate email key to domain.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, cred domain.Credentials) error {
	doc := userDoc{
		ID:           cred.User.ID,
		Email:        cred.User.Email,
		FullName:     cred.User.FullName,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    formatTime(cred.User.CreatedAt),
	}
	_, err := s.col(colUsers).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return domain.Unavailable("mongodb: insert user", err)
	}
	return nil
}

// UserByEmail loads the user with their password hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.Credentials, error) {
	var doc userDoc
	if err := findOne(ctx, s.col(colUsers), bson.M{"email": email}, &doc, domain.ErrUserNotFound, "mongodb: find user"); err != nil {
		return domain.Credentials{}, err
	}
	user, err := doc.toDomain()
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{User: user, PasswordHash: doc.PasswordHash}, nil
}

// UserByID loads the public user record.
func (s *Store) UserByID(ctx context.Context, id string) (domain.User, error) {
	var doc userDoc
	if err := findOne(ctx, s.col(colUsers), bson.M{"id": id}, &doc, domain.ErrUserNotFound, "mongodb: find user"); err != nil {
		return domain.User{}, err
	}
	return doc.toDomain()
}

func (d userDoc) toDomain() (domain.User, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: d.ID, Email: d.Email, FullName: d.FullName, CreatedAt: created}, nil
}
