package payload

type CreateProductRequest struct {
	Name           string            `json:"name"           validate:"required"`
	Slug           string            `json:"slug"           validate:"required"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"          validate:"gte=0"`
	Stock          int               `json:"stock"          validate:"gte=0"`
	Category       string            `json:"category"`
	CategorySlug   string            `json:"categorySlug"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Images         []string          `json:"images"`
}

type UpdateProductRequest struct {
	Name           *string            `json:"name,omitempty"`
	Slug           *string            `json:"slug,omitempty"`
	Description    *string            `json:"description,omitempty"`
	Price          *float64           `json:"price,omitempty"          validate:"omitempty,gte=0"`
	Stock          *int               `json:"stock,omitempty"          validate:"omitempty,gte=0"`
	Category       *string            `json:"category,omitempty"`
	CategorySlug   *string            `json:"categorySlug,omitempty"`
	Features       *[]string          `json:"features,omitempty"`
	Specifications *map[string]string `json:"specifications,omitempty"`
	Images         *[]string          `json:"images,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
}
