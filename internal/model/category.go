package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category groups products under a URL-friendly slug.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	Slug      string        `bson:"slug"          json:"slug"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}

// CategoryWithCount pairs a category with its product count for the admin
// listing.
type CategoryWithCount struct {
	Category
	ProductCount int64 `json:"productCount"`
}
