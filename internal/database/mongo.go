// Package database opens the MongoDB connection and prepares the
// indexes the repositories rely on.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Open connects to MongoDB, verifies the connection with a ping and
// returns a handle on the named database.
func Open(uri, name string) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(name), nil
}

// EnsureIndexes creates the unique indexes the application depends on:
// one account per email, one cart per user and exact-match lookup of
// stored refresh tokens.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(coll, field string) error {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{field: 1},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", coll, field, err)
		}
		return nil
	}

	if err := unique("users", "email"); err != nil {
		return err
	}
	if err := unique("refresh_tokens", "token"); err != nil {
		return err
	}
	if err := unique("carts", "user_email"); err != nil {
		return err
	}
	if err := unique("products", "image"); err != nil {
		return err
	}
	return nil
}
