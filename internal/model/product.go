package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Stock status labels derived from the stock count.
const (
	StockStatusIn  = "in stock"
	StockStatusOut = "not in stock"
)

// Product is a document in the `products` collection. The image URL doubles
// as the natural key of the catalog: creating a second product with the
// same image is rejected.
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Price       float64       `bson:"price" json:"price"`
	Stock       int           `bson:"stock" json:"stock"`
	StockStatus string        `bson:"stock_status" json:"stock_status"`
	Image       string        `bson:"image" json:"image"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// DeriveStockStatus recomputes the status label from the stock count. It
// runs on create and whenever an update changes the stock.
func (p *Product) DeriveStockStatus() {
	if p.Stock > 0 {
		p.StockStatus = StockStatusIn
	} else {
		p.StockStatus = StockStatusOut
	}
}

// ProductUpdate carries the optional fields of a catalog update. Nil fields
// are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Image       *string
}
