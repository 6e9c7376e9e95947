package payload

import "github.com/techdetails/storefront-api/internal/model"

type CartResponse struct {
	Items       []model.CartItem `json:"items"`
	TotalItems  int              `json:"totalItems"`
	TotalAmount float64          `json:"totalAmount"`
}

type ReplaceCartRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,dive"`
}

type CartItemRequest struct {
	ID       string  `json:"id"       validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"required"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

type UpdateCartItemRequest struct {
	ID       string `json:"id"       validate:"required"`
	Quantity int    `json:"quantity"`
}

// Item converts the request line into the domain cart item.
func (r CartItemRequest) Item() model.CartItem {
	return model.CartItem{
		ProductID: r.ID,
		Name:      r.Name,
		Price:     r.Price,
		Quantity:  r.Quantity,
		Image:     r.Image,
		Category:  r.Category,
	}
}
