package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/ecommerce-api/internal/model"
)

// ProductRepo persists catalog entries in the `products` collection.
// The image URL acts as a secondary natural key so the same asset is
// never listed twice.
type ProductRepo struct{ coll *mongo.Collection }

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection("products")}
}

// Create inserts a new product. The caller is expected to have filled
// StockStatus already; timestamps are stamped here.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"image": p.Image})
	if err != nil {
		return model.Product{}, err
	}
	if n > 0 {
		return model.Product{}, ErrDuplicateImage
	}

	now := time.Now().UTC()
	p.ID = bson.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Product{}, ErrDuplicateImage
		}
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (model.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Product{}, ErrNotFound
	}
	var p model.Product
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// List returns a page of products ordered by insertion id. skip and
// limit implement offset pagination for the catalog listing.
func (r *ProductRepo) List(ctx context.Context, skip, limit int64) ([]model.Product, error) {
	opts := options.Find().
		SetSort(bson.M{"_id": 1}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update applies the non-nil fields of upd. When the stock level changes
// the derived status is recomputed alongside it.
func (r *ProductRepo) Update(ctx context.Context, id string, upd model.ProductUpdate) (model.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Product{}, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
		if *upd.Stock > 0 {
			set["stock_status"] = model.StockStatusIn
		} else {
			set["stock_status"] = model.StockStatusOut
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return model.Product{}, err
	}
	if res.MatchedCount == 0 {
		return model.Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
