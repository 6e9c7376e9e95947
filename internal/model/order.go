package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderCustomer is a snapshot of the buyer at order time.
type OrderCustomer struct {
	Name  string `bson:"name"  json:"name"`
	Email string `bson:"email" json:"email"`
}

// Order is a placed order built from the user's cart.
type Order struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber string        `bson:"order_number"  json:"orderNumber"`
	UserID      bson.ObjectID `bson:"user_id"       json:"userId"`
	Customer    OrderCustomer `bson:"customer"      json:"customer"`
	Items       []CartItem    `bson:"items"         json:"items"`
	TotalAmount float64       `bson:"total_amount"  json:"totalAmount"`
	Status      string        `bson:"status"        json:"status"`
	CreatedAt   time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at"    json:"updatedAt"`
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}

	return false
}
