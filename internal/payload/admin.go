package payload

type AdminUpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
