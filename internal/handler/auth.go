package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/payload"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/httpjson"
	"github.com/techdetails/storefront-api/shared/validation"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	resetUsecase usecase.PasswordResetUsecase
	tokens       auth.TokenService
	validator    *validation.Validator
	secureCookie bool
	logger       *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	tokens auth.TokenService,
	validator *validation.Validator,
	secureCookie bool,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		resetUsecase: resetUsecase,
		tokens:       tokens,
		validator:    validator,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate register request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	user, token, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			httpjson.ErrorCode(w, http.StatusConflict, "email already in use", "EMAIL_EXISTS")
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		httpjson.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.tokens.SessionTTL(), h.secureCookie))
	httpjson.Respond(w, http.StatusCreated, payload.UserResponse{User: user.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate login request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	user, token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		h.logger.Error().Err(err).Msg("failed to log in user")
		httpjson.Error(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.tokens.SessionTTL(), h.secureCookie))
	httpjson.Respond(w, http.StatusOK, payload.UserResponse{User: user.Public()})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ExpiredSessionCookie(h.secureCookie))
	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

// CurrentUser returns the caller's identity resolved from the session
// cookie.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.UserResponse{User: user.Public()})
}

// ForgotPassword always responds with success so registered emails cannot
// be distinguished from unknown ones.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate forgot-password request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	if err := h.resetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("failed to request password reset")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate reset-password request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	if err := h.resetUsecase.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrResetTokenInvalid),
			errors.Is(err, usecase.ErrResetTokenNotFound),
			errors.Is(err, usecase.ErrResetTokenExpired):
			httpjson.Error(w, http.StatusBadRequest, "invalid or expired token")
		case errors.Is(err, usecase.ErrUserNotFound):
			httpjson.Error(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Msg("failed to reset password")
			httpjson.Error(w, http.StatusInternalServerError, "failed to reset password")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpjson.Respond(w, http.StatusBadRequest, payload.VerifyResetTokenResponse{
			Valid: false,
			Error: "missing token",
		})
		return
	}

	if err := h.resetUsecase.ValidateResetToken(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, usecase.ErrResetTokenInvalid),
			errors.Is(err, usecase.ErrResetTokenNotFound),
			errors.Is(err, usecase.ErrResetTokenExpired):
			httpjson.Respond(w, http.StatusBadRequest, payload.VerifyResetTokenResponse{
				Valid: false,
				Error: "invalid or expired token",
			})
		default:
			h.logger.Error().Err(err).Msg("failed to verify reset token")
			httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.VerifyResetTokenResponse{Valid: true})
}
