package model

// CartItem identifies a purchasable item together with a snapshot of its
// display attributes at add-time and the chosen quantity.
type CartItem struct {
	ProductID string  `bson:"id"                 json:"id"`
	Name      string  `bson:"name"               json:"name"`
	Price     float64 `bson:"price"              json:"price"`
	Quantity  int     `bson:"quantity"           json:"quantity"`
	Image     string  `bson:"image,omitempty"    json:"image,omitempty"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

// CartTotals are derived from the cart items on every read, never cached.
type CartTotals struct {
	ItemCount int     `json:"totalItems"`
	Amount    float64 `json:"totalAmount"`
}
