package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/ecommerce-api/internal/auth"
	"github.com/iliyamo/ecommerce-api/internal/model"
)

// TokenRepo persists refresh-token documents in the `refresh_tokens`
// collection. It implements auth.TokenStore; not-found outcomes are
// reported with the auth package's sentinel so the token service and its
// callers agree on one error.
type TokenRepo struct{ coll *mongo.Collection }

func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{coll: db.Collection("refresh_tokens")}
}

// Store inserts one record per issued token. Nothing is deduplicated:
// every login leaves one more valid token for the user.
func (r *TokenRepo) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.coll.InsertOne(ctx, model.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	return err
}

// Find looks a record up by exact token string. Expiry is the caller's
// concern; expired records are returned as stored.
func (r *TokenRepo) Find(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.RefreshToken{}, auth.ErrTokenNotFound
	}
	return t, err
}

// Delete removes the record; deleting an unknown token reports not found,
// which makes a second revoke observable.
func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auth.ErrTokenNotFound
	}
	return nil
}
