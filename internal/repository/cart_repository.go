package repository

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/ecommerce-api/internal/cart"
	"github.com/iliyamo/ecommerce-api/internal/model"
)

// CartRepo stores one cart document per user email in the `carts`
// collection. It implements cart.Store: reads hand the full document to
// the engine and writes replace it wholesale, so concurrent mutations for
// the same user are last-writer-wins by design.
type CartRepo struct{ coll *mongo.Collection }

func NewCartRepo(db *mongo.Database) *CartRepo {
	return &CartRepo{coll: db.Collection("carts")}
}

// FindByEmail fetches the user's cart document.
func (r *CartRepo) FindByEmail(ctx context.Context, email string) (model.Cart, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c model.Cart
	err := r.coll.FindOne(ctx, bson.M{"user_email": email}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Cart{}, cart.ErrCartNotFound
	}
	return c, err
}

// Insert creates the lazily-built first cart for a user.
func (r *CartRepo) Insert(ctx context.Context, c model.Cart) error {
	c.UserEmail = strings.ToLower(strings.TrimSpace(c.UserEmail))
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

// Replace writes the whole document back under the email key.
func (r *CartRepo) Replace(ctx context.Context, c model.Cart) error {
	c.UserEmail = strings.ToLower(strings.TrimSpace(c.UserEmail))
	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_email": c.UserEmail}, c)
	return err
}
