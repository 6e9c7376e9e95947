package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a catalog entry.
type Product struct {
	ID             bson.ObjectID     `bson:"_id,omitempty"  json:"id"`
	Name           string            `bson:"name"           json:"name"`
	Slug           string            `bson:"slug"           json:"slug"`
	Description    string            `bson:"description"    json:"description"`
	Price          float64           `bson:"price"          json:"price"`
	Stock          int               `bson:"stock"          json:"stock"`
	Category       string            `bson:"category"       json:"category"`
	CategorySlug   string            `bson:"category_slug"  json:"categorySlug"`
	Features       []string          `bson:"features"       json:"features"`
	Specifications map[string]string `bson:"specifications" json:"specifications"`
	Images         []string          `bson:"images"         json:"images"`
	CreatedAt      time.Time         `bson:"created_at"     json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updated_at"     json:"updatedAt"`
}

// InStock reports whether the product has remaining stock.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
