package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/payload"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/httpjson"
	"github.com/techdetails/storefront-api/shared/validation"
)

// AdminHandler serves back-office user management and the dashboard stats
// endpoint. Every route it handles sits behind the admin guard.
type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	validator    *validation.Validator
	logger       *zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(
	adminUsecase usecase.AdminUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
		logger:       logger,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := repository.FilterUsersParams{}

	query := r.URL.Query()
	if role := query.Get("role"); role != "" {
		params.Role = &role
	}

	limit, err := strconv.ParseUint(query.Get("limit"), 10, 64)
	if err != nil || limit == 0 {
		limit = 20
	}
	params.Limit = limit

	if page, err := strconv.ParseUint(query.Get("page"), 10, 64); err == nil && page > 1 {
		params.Offset = (page - 1) * limit
	}

	users, err := h.adminUsecase.ListUsers(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		httpjson.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	publicUsers := make([]model.PublicUser, 0, len(users))
	for _, user := range users {
		publicUsers = append(publicUsers, user.Public())
	}

	httpjson.Respond(w, http.StatusOK, publicUsers)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to get user")
		httpjson.Error(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	httpjson.Respond(w, http.StatusOK, user.Public())
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req payload.AdminUpdateUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate user update request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	user, err := h.adminUsecase.UpdateUser(r.Context(), chi.URLParam(r, "id"), usecase.AdminUpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httpjson.Error(w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			httpjson.Error(w, http.StatusConflict, "email already in use")
		default:
			h.logger.Error().Err(err).Msg("failed to update user")
			httpjson.Error(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, user.Public())
}

func (h *AdminHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminUsecase.GrantAdmin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}

		h.logger.Error().Err(err).Msg("failed to grant admin role")
		httpjson.Error(w, http.StatusInternalServerError, "failed to grant admin role")
		return
	}

	httpjson.Respond(w, http.StatusOK, user.Public())
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())

	err := h.adminUsecase.DeleteUser(r.Context(), actor.ID.Hex(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSelfDeletion):
			httpjson.Error(w, http.StatusBadRequest, "cannot delete your own account")
		case errors.Is(err, usecase.ErrUserNotFound):
			httpjson.Error(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Msg("failed to delete user")
			httpjson.Error(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUsecase.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to collect dashboard stats")
		httpjson.Error(w, http.StatusInternalServerError, "failed to collect dashboard stats")
		return
	}

	httpjson.Respond(w, http.StatusOK, stats)
}
