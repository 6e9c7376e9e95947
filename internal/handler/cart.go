package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/payload"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/httpjson"
	"github.com/techdetails/storefront-api/shared/validation"
)

// CartHandler serves the cart endpoints. All routes are mounted behind
// RequireAuth.
type CartHandler struct {
	cartUsecase usecase.CartUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

// NewCartHandler creates a new CartHandler instance.
func NewCartHandler(
	cartUsecase usecase.CartUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *CartHandler {
	return &CartHandler{
		cartUsecase: cartUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	items, totals, err := h.cartUsecase.GetCart(r.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.CartResponse{
		Items:       items,
		TotalItems:  totals.ItemCount,
		TotalAmount: totals.Amount,
	})
}

// ReplaceCart overwrites the server cart with the client's copy. The client
// remains the source of truth between syncs; a failed sync is retried on
// the next mutation.
func (h *CartHandler) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req payload.ReplaceCartRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request, items array is required")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate cart sync request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, line.Item())
	}

	if err := h.cartUsecase.ReplaceCart(r.Context(), user.ID.Hex(), items); err != nil {
		h.logger.Error().Err(err).Msg("failed to update cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

// MergeCart reconciles the anonymous client cart with the persisted cart at
// login. The server cart is authoritative when non-empty.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req payload.ReplaceCartRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request, items array is required")
		return
	}

	clientItems := make([]model.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		clientItems = append(clientItems, line.Item())
	}

	serverItems, _, err := h.cartUsecase.GetCart(r.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load cart for merge")
		httpjson.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	resolved := usecase.ResolveOnLogin(clientItems, serverItems)

	if err := h.cartUsecase.ReplaceCart(r.Context(), user.ID.Hex(), resolved); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist merged cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	totals := usecase.Totals(resolved)
	httpjson.Respond(w, http.StatusOK, payload.CartResponse{
		Items:       resolved,
		TotalItems:  totals.ItemCount,
		TotalAmount: totals.Amount,
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := h.cartUsecase.ClearCart(r.Context(), user.ID.Hex()); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req payload.CartItemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate cart item request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	if err := h.cartUsecase.AddItem(r.Context(), user.ID.Hex(), req.Item()); err != nil {
		h.logger.Error().Err(err).Msg("failed to add item to cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req payload.UpdateCartItemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields, err := h.validator.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("failed to validate cart update request")
		httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	} else if fields != nil {
		httpjson.FieldErrors(w, fields)
		return
	}

	err := h.cartUsecase.SetItemQuantity(r.Context(), user.ID.Hex(), req.ID, req.Quantity)
	if err != nil {
		if errors.Is(err, usecase.ErrCartItemNotFound) {
			httpjson.Error(w, http.StatusNotFound, "item not found in cart")
			return
		}

		h.logger.Error().Err(err).Msg("failed to update cart item")
		httpjson.Error(w, http.StatusInternalServerError, "failed to update cart item")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id := r.URL.Query().Get("id")
	if id == "" {
		httpjson.Error(w, http.StatusBadRequest, "item id is required")
		return
	}

	if err := h.cartUsecase.RemoveItem(r.Context(), user.ID.Hex(), id); err != nil {
		h.logger.Error().Err(err).Msg("failed to remove item from cart")
		httpjson.Error(w, http.StatusInternalServerError, "failed to remove item from cart")
		return
	}

	httpjson.Respond(w, http.StatusOK, payload.SuccessResponse{Success: true})
}
