package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartLine is one (product, quantity) entry inside a cart. A cart holds at
// most one line per product id; the cart engine enforces that, not the
// collection schema.
type CartLine struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Cart is a document in the `carts` collection, one per user, keyed by the
// owner's email. It is created lazily on the first add and mutated by
// replacing the whole document; an empty item list is a valid persisted
// state.
type Cart struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UserEmail string        `bson:"user_email" json:"user_email"`
	Items     []CartLine    `bson:"items" json:"items"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
