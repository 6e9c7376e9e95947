package payload

import "github.com/techdetails/storefront-api/internal/model"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	User model.PublicUser `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type VerifyResetTokenResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
